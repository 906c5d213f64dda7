// cmd/api/personas.go
// HTTP request handlers for the personas resource. Each handler is a method
// on *applicationDependencies so it has access to the logger and database
// models.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lfernandez/turnos-api/internal/data"
	"github.com/lfernandez/turnos-api/internal/validator"
)

// createPersonaHandler handles POST /personas.
// It reads a JSON body with the new persona's details, validates every
// field, inserts a record, and responds with the created persona (including
// its database-assigned ID and derived edad) and a 201 Created status.
// A dni that is already registered is rejected with 400.
func (app *applicationDependencies) createPersonaHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreatePersonaInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	now := time.Now()

	v := validator.New()
	data.ValidarPersona(v, &input, data.FechaDe(now))
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Map the validated input fields onto a new Persona struct.
	persona := &data.Persona{
		Nombre:          input.Nombre,
		DNI:             input.DNI,
		FechaNacimiento: input.FechaNacimiento,
		Habilitado:      *input.Habilitado,
	}

	// Persist the persona. Insert() also writes the auto-generated ID and
	// timestamp back into persona.
	err = app.models.Personas.Insert(persona)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDNIDuplicado):
			app.conflictResponse(w, r, fmt.Sprintf("el dni %d ya está registrado", input.DNI))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	persona.Edad = persona.EdadAl(now)

	err = app.writeJSON(w, http.StatusCreated, envelope{"persona": persona}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showPersonaHandler handles GET /personas/:id.
// It parses the :id URL parameter, fetches the persona, computes its edad,
// and returns it. Responds 404 if no persona with that ID exists.
func (app *applicationDependencies) showPersonaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	persona, err := app.models.Personas.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	persona.Edad = persona.EdadAl(time.Now())

	err = app.writeJSON(w, http.StatusOK, envelope{"persona": persona}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listPersonasHandler handles GET /personas.
// It fetches every persona and returns them as a JSON array, each with its
// edad derived from fecha_nacimiento at response time.
func (app *applicationDependencies) listPersonasHandler(w http.ResponseWriter, r *http.Request) {
	personas, err := app.models.Personas.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	now := time.Now()
	for _, persona := range personas {
		persona.Edad = persona.EdadAl(now)
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"personas": personas}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deletePersonaHandler handles DELETE /personas/:id.
// It deletes the matching record (contactos and turnos cascade with it) and
// responds with a confirmation message naming the id.
// Responds 404 if no persona with that ID exists.
func (app *applicationDependencies) deletePersonaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Personas.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	mensaje := fmt.Sprintf("persona con id %d eliminada", id)
	err = app.writeJSON(w, http.StatusOK, envelope{"mensaje": mensaje}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
