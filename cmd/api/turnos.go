// cmd/api/turnos.go
// HTTP request handlers for the turnos resource, including the full booking
// validation sequence and the free-slot query.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lfernandez/turnos-api/internal/data"
	"github.com/lfernandez/turnos-api/internal/validator"
)

// createTurnoHandler handles POST /turnos.
// The booking checks run in a fixed order, each with its own error:
//
//	1. the persona exists                                  → 404
//	2. the fecha is not in the past                        → 400
//	3. the hora falls inside the agenda window             → 400
//	4. the hora sits on the 30-minute grid                 → 400
//	5. no other active turno occupies the slot             → 400
//	6. the persona is under the recent-cancellation limit  → 400
//
// On success the turno is stored as "pendiente" and returned with 201.
func (app *applicationDependencies) createTurnoHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateTurnoInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidarTurno(v, &input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Check 1: the persona must exist.
	persona, err := app.models.Personas.Get(input.PersonaID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	hoy := data.FechaDe(time.Now())

	// Checks 2-4: past date, agenda window, 30-minute grid.
	if err := data.ValidarHorario(input.Fecha, *input.Hora, hoy); err != nil {
		app.metrics.turnosRechazados.Inc()
		app.rejectedResponse(w, r, err.Error())
		return
	}

	// Check 5: the slot must be free, no matter whose turno occupies it.
	ocupado, err := app.models.Turnos.ExisteEnHorario(input.Fecha, *input.Hora)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if ocupado {
		app.metrics.turnosRechazados.Inc()
		app.conflictResponse(w, r, "ya existe un turno reservado en esa fecha y hora")
		return
	}

	// Check 6: cancellation limit over the trailing window.
	desde := hoy.AddDate(0, 0, -data.VentanaCancelados)
	cancelados, err := app.models.Turnos.ContarCanceladosDesde(persona.ID, desde)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if cancelados >= data.LimiteCancelados {
		app.metrics.turnosRechazados.Inc()
		app.rejectedResponse(w, r, fmt.Sprintf(
			"la persona acumula %d turnos cancelados en los últimos %d días y no puede reservar",
			cancelados, data.VentanaCancelados,
		))
		return
	}

	turno := &data.Turno{
		Fecha:     input.Fecha,
		Hora:      *input.Hora,
		Estado:    data.EstadoPendiente,
		PersonaID: persona.ID,
	}

	err = app.models.Turnos.Insert(turno)
	if err != nil {
		switch {
		// A concurrent booking can win the slot between check 5 and here;
		// the partial unique index reports it as ErrTurnoSuperpuesto.
		case errors.Is(err, data.ErrTurnoSuperpuesto):
			app.metrics.turnosRechazados.Inc()
			app.conflictResponse(w, r, "ya existe un turno reservado en esa fecha y hora")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.metrics.turnosReservados.Inc()

	err = app.writeJSON(w, http.StatusCreated, envelope{"turno": turno}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showTurnoHandler handles GET /turnos/:id.
// Responds 404 if no turno with that ID exists.
func (app *applicationDependencies) showTurnoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	turno, err := app.models.Turnos.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"turno": turno}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listTurnosHandler handles GET /turnos.
// It fetches every turno and returns them as a JSON array.
func (app *applicationDependencies) listTurnosHandler(w http.ResponseWriter, r *http.Request) {
	turnos, err := app.models.Turnos.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"turnos": turnos}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// cancelTurnoHandler handles PATCH /turnos/:id/cancelar.
// It marks the turno as "cancelado" (freeing its slot) and returns the
// updated record. Responds 404 if no turno with that ID exists.
func (app *applicationDependencies) cancelTurnoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	turno, err := app.models.Turnos.Cancelar(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"turno": turno}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteTurnoHandler handles DELETE /turnos/:id.
// It deletes the matching record and responds with a confirmation message.
// Responds 404 if no turno with that ID exists; a store failure during the
// delete surfaces as a 500 rather than being swallowed.
func (app *applicationDependencies) deleteTurnoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Turnos.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("no se pudo eliminar el turno: %w", err))
		}
		return
	}

	mensaje := fmt.Sprintf("turno con id %d eliminado", id)
	err = app.writeJSON(w, http.StatusOK, envelope{"mensaje": mensaje}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// availableTurnosHandler handles GET /turnos-disponibles?fecha=YYYY-MM-DD.
// It renders the agenda candidates for the date minus the horas of its
// non-cancelled turnos, echoing the queried fecha back alongside the ordered
// free times.
func (app *applicationDependencies) availableTurnosHandler(w http.ResponseWriter, r *http.Request) {
	valorFecha := app.readString(r.URL.Query(), "fecha", "")
	if valorFecha == "" {
		app.badRequestResponse(w, r, errors.New("debe indicarse el parámetro fecha"))
		return
	}

	parsed, err := time.Parse(data.FormatoFecha, valorFecha)
	if err != nil {
		app.badRequestResponse(w, r, data.ErrFormatoFecha)
		return
	}
	fecha := data.FechaDe(parsed)

	ocupadas, err := app.models.Turnos.HorasOcupadas(fecha)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	horarios := []string{}
	for _, hora := range data.HorariosLibres(ocupadas) {
		horarios = append(horarios, hora.String())
	}

	agenda := envelope{
		"fecha":       fecha,
		"disponibles": horarios,
	}
	err = app.writeJSON(w, http.StatusOK, agenda, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
