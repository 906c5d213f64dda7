// cmd/api/contactos.go
// HTTP request handlers for the contactos resource.
package main

import (
	"errors"
	"net/http"

	"github.com/lfernandez/turnos-api/internal/data"
	"github.com/lfernandez/turnos-api/internal/validator"
)

// createContactoHandler handles POST /contactos.
// The referenced persona must exist (404 otherwise) and must not already
// have a contacto (400 otherwise). The unique constraint on persona_id backs
// the duplicate check, so a race between two requests for the same persona
// still admits only one contacto.
func (app *applicationDependencies) createContactoHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateContactoInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidarContacto(v, &input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// The persona must exist before anything is written.
	_, err = app.models.Personas.Get(input.PersonaID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	contacto := &data.Contacto{
		Email:     input.Email,
		Telefono:  input.Telefono,
		Direccion: input.Direccion,
		Localidad: input.Localidad,
		PersonaID: input.PersonaID,
	}

	err = app.models.Contactos.Insert(contacto)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrContactoDuplicado):
			app.conflictResponse(w, r, "la persona ya tiene un contacto registrado")
		case errors.Is(err, data.ErrRecordNotFound):
			// The persona was deleted between the existence check and the insert.
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"contacto": contacto}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listContactosHandler handles GET /contactos.
// It fetches every contacto and returns them as a JSON array.
func (app *applicationDependencies) listContactosHandler(w http.ResponseWriter, r *http.Request) {
	contactos, err := app.models.Contactos.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"contactos": contactos}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
