// cmd/api/healthcheck.go
package main

import "net/http"

// healthcheckHandler handles GET /healthcheck.
// It reports that the service is up, together with the runtime environment
// and the build version.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	data := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
