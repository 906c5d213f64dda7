// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the recoverPanic, rateLimit and collectMetrics middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → collectMetrics → router
//
// Current endpoints:
//
//	GET    /personas             – list all personas (with derived edad)
//	GET    /personas/:id         – retrieve a single persona by ID
//	POST   /personas             – create a new persona
//	DELETE /personas/:id         – delete a persona by ID
//	GET    /contactos            – list all contactos
//	POST   /contactos            – create a contacto for an existing persona
//	GET    /turnos               – list all turnos
//	GET    /turnos/:id           – retrieve a single turno by ID
//	POST   /turnos               – book a turno (full agenda-rule sequence)
//	PATCH  /turnos/:id/cancelar  – mark a turno as cancelado
//	DELETE /turnos/:id           – delete a turno by ID
//	GET    /turnos-disponibles   – free slots for a date (?fecha=YYYY-MM-DD)
//	GET    /healthcheck          – service status, environment and version
//	GET    /metrics              – Prometheus scrape endpoint
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Persona directory
	router.HandlerFunc(http.MethodGet, "/personas", app.listPersonasHandler)
	router.HandlerFunc(http.MethodGet, "/personas/:id", app.showPersonaHandler)
	router.HandlerFunc(http.MethodPost, "/personas", app.createPersonaHandler)
	router.HandlerFunc(http.MethodDelete, "/personas/:id", app.deletePersonaHandler)

	// Contacto directory
	router.HandlerFunc(http.MethodGet, "/contactos", app.listContactosHandler)
	router.HandlerFunc(http.MethodPost, "/contactos", app.createContactoHandler)

	// Turno scheduler
	router.HandlerFunc(http.MethodGet, "/turnos", app.listTurnosHandler)
	router.HandlerFunc(http.MethodGet, "/turnos/:id", app.showTurnoHandler)
	router.HandlerFunc(http.MethodPost, "/turnos", app.createTurnoHandler)
	router.HandlerFunc(http.MethodPatch, "/turnos/:id/cancelar", app.cancelTurnoHandler)
	router.HandlerFunc(http.MethodDelete, "/turnos/:id", app.deleteTurnoHandler)
	router.HandlerFunc(http.MethodGet, "/turnos-disponibles", app.availableTurnosHandler)

	// Operational endpoints
	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	// Wrap with middleware: recoverPanic is outermost so it catches panics
	// from rateLimit, collectMetrics and router alike.
	return app.recoverPanic(app.rateLimit(app.collectMetrics(router)))
}
