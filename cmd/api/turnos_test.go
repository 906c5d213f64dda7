// cmd/api/turnos_test.go
package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lfernandez/turnos-api/internal/data"
)

// turnoBody builds a booking request for the given slot and persona 1.
func turnoBody(fecha, hora string) string {
	return fmt.Sprintf(`{"fecha":%q,"hora":%q,"persona_id":1}`, fecha, hora)
}

func TestCreateTurno(t *testing.T) {
	turnos := &mockTurnoStore{
		insertFn: func(turno *data.Turno) error {
			turno.ID = 12
			turno.CreatedAt = time.Now()
			return nil
		},
	}
	app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

	w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "09:00"))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	payload := decodeBody(t, w)
	turno, ok := payload["turno"].(map[string]any)
	if !ok {
		t.Fatalf("response %q has no turno object", w.Body.String())
	}
	if got := turno["estado"]; got != data.EstadoPendiente {
		t.Errorf("estado = %v, want %q", got, data.EstadoPendiente)
	}
	if got := turno["hora"]; got != "09:00" {
		t.Errorf("hora = %v, want 09:00", got)
	}
}

func TestCreateTurnoPersonaMissing(t *testing.T) {
	personas := &mockPersonaStore{
		getFn: func(id int64) (*data.Persona, error) {
			return nil, data.ErrRecordNotFound
		},
	}
	app := newTestApplication(data.Models{Personas: personas, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

	w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "09:00"))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestCreateTurnoAgendaRules covers the date and time-of-day rules: no past
// dates, the [09:00, 17:00] window, and the 30-minute grid.
func TestCreateTurnoAgendaRules(t *testing.T) {
	tests := []struct {
		name    string
		fecha   string
		hora    string
		wantErr error
	}{
		{"past date", "2020-01-02", "10:00", data.ErrFechaPasada},
		{"before opening", "2099-01-02", "08:45", data.ErrFueraDeAgenda},
		{"after closing", "2099-01-02", "17:30", data.ErrFueraDeAgenda},
		{"off the grid", "2099-01-02", "09:15", data.ErrHoraDesalineada},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

			w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody(tc.fecha, tc.hora))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusBadRequest, w.Body.String())
			}
			if msg := errorField(t, w).(string); msg != tc.wantErr.Error() {
				t.Errorf("error = %q, want %q", msg, tc.wantErr.Error())
			}
		})
	}
}

func TestCreateTurnoSlotTaken(t *testing.T) {
	turnos := &mockTurnoStore{
		existeFn: func(fecha data.Fecha, hora data.Hora) (bool, error) {
			return true, nil
		},
	}
	app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

	w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "10:30"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if msg := errorField(t, w).(string); !strings.Contains(msg, "ya existe un turno") {
		t.Errorf("error = %q, want the slot-taken message", msg)
	}
}

// TestCreateTurnoCancellationLimit drives the trailing-window rule from both
// sides of the threshold: five recent cancellations block the booking, four
// do not.
func TestCreateTurnoCancellationLimit(t *testing.T) {
	t.Run("at the limit", func(t *testing.T) {
		turnos := &mockTurnoStore{
			contarFn: func(personaID int64, desde time.Time) (int, error) {
				return data.LimiteCancelados, nil
			},
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "11:00"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusBadRequest, w.Body.String())
		}
		if msg := errorField(t, w).(string); !strings.Contains(msg, "cancelados") {
			t.Errorf("error = %q, want the cancellation-limit message", msg)
		}
	})

	t.Run("under the limit", func(t *testing.T) {
		turnos := &mockTurnoStore{
			contarFn: func(personaID int64, desde time.Time) (int, error) {
				return data.LimiteCancelados - 1, nil
			},
			insertFn: func(turno *data.Turno) error {
				turno.ID = 1
				return nil
			},
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "11:00"))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
		}
	})
}

// TestCreateTurnoInsertRace simulates a concurrent booking winning the slot
// between the availability check and the insert.
func TestCreateTurnoInsertRace(t *testing.T) {
	turnos := &mockTurnoStore{
		insertFn: func(turno *data.Turno) error {
			return data.ErrTurnoSuperpuesto
		},
	}
	app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

	w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "12:00"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateTurnoValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing fecha", `{"hora":"09:00","persona_id":1}`, "fecha"},
		{"missing hora", `{"fecha":"2099-01-02","persona_id":1}`, "hora"},
		{"missing persona_id", `{"fecha":"2099-01-02","hora":"09:00"}`, "persona_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

			w := testRequest(t, app, http.MethodPost, "/turnos", tc.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
			fields, ok := errorField(t, w).(map[string]any)
			if !ok {
				t.Fatalf("error field is not a map: %s", w.Body.String())
			}
			if _, ok := fields[tc.wantField]; !ok {
				t.Errorf("validation errors %v missing field %q", fields, tc.wantField)
			}
		})
	}
}

func TestCreateTurnoMalformedHora(t *testing.T) {
	app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

	w := testRequest(t, app, http.MethodPost, "/turnos", turnoBody("2099-01-02", "9 en punto"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if msg := errorField(t, w).(string); msg != data.ErrFormatoHora.Error() {
		t.Errorf("error = %q, want %q", msg, data.ErrFormatoHora.Error())
	}
}

func TestShowTurno(t *testing.T) {
	t.Run("existing turno", func(t *testing.T) {
		turnos := &mockTurnoStore{
			getFn: func(id int64) (*data.Turno, error) {
				return &data.Turno{
					ID:        id,
					Fecha:     data.NuevaFecha(2099, time.January, 2),
					Hora:      data.NuevaHora(10, 0),
					Estado:    data.EstadoPendiente,
					PersonaID: 1,
				}, nil
			},
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodGet, "/turnos/5", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		payload := decodeBody(t, w)
		turno := payload["turno"].(map[string]any)
		if got := turno["id"].(float64); got != 5 {
			t.Errorf("id = %v, want 5", got)
		}
	})

	t.Run("missing turno", func(t *testing.T) {
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

		w := testRequest(t, app, http.MethodGet, "/turnos/99", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestCancelTurno(t *testing.T) {
	t.Run("existing turno", func(t *testing.T) {
		turnos := &mockTurnoStore{
			cancelarFn: func(id int64) (*data.Turno, error) {
				return &data.Turno{
					ID:        id,
					Fecha:     data.NuevaFecha(2099, time.January, 2),
					Hora:      data.NuevaHora(10, 0),
					Estado:    data.EstadoCancelado,
					PersonaID: 1,
				}, nil
			},
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodPatch, "/turnos/5/cancelar", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}
		payload := decodeBody(t, w)
		turno := payload["turno"].(map[string]any)
		if got := turno["estado"]; got != data.EstadoCancelado {
			t.Errorf("estado = %v, want %q", got, data.EstadoCancelado)
		}
	})

	t.Run("missing turno", func(t *testing.T) {
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

		w := testRequest(t, app, http.MethodPatch, "/turnos/99/cancelar", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestDeleteTurno(t *testing.T) {
	t.Run("existing turno", func(t *testing.T) {
		turnos := &mockTurnoStore{
			deleteFn: func(id int64) error { return nil },
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodDelete, "/turnos/5", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("missing turno", func(t *testing.T) {
		turnos := &mockTurnoStore{
			deleteFn: func(id int64) error { return data.ErrRecordNotFound },
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodDelete, "/turnos/99", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		turnos := &mockTurnoStore{
			deleteFn: func(id int64) error { return errors.New("connection reset") },
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodDelete, "/turnos/5", "")

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestAvailableTurnos(t *testing.T) {
	t.Run("empty day", func(t *testing.T) {
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

		w := testRequest(t, app, http.MethodGet, "/turnos-disponibles?fecha=2099-01-02", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}

		payload := decodeBody(t, w)
		disponibles, ok := payload["disponibles"].([]any)
		if !ok {
			t.Fatalf("response %q has no disponibles list", w.Body.String())
		}
		if len(disponibles) != 17 {
			t.Fatalf("len(disponibles) = %d, want 17", len(disponibles))
		}
		if disponibles[0] != "09:00" || disponibles[16] != "17:00" {
			t.Errorf("disponibles bounds = %v, %v, want 09:00 and 17:00", disponibles[0], disponibles[16])
		}
		if got := payload["fecha"]; got != "2099-01-02" {
			t.Errorf("fecha = %v, want 2099-01-02", got)
		}
	})

	t.Run("occupied slot excluded", func(t *testing.T) {
		turnos := &mockTurnoStore{
			horasFn: func(fecha data.Fecha) ([]data.Hora, error) {
				return []data.Hora{data.NuevaHora(10, 0)}, nil
			},
		}
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: turnos})

		w := testRequest(t, app, http.MethodGet, "/turnos-disponibles?fecha=2099-01-02", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		payload := decodeBody(t, w)
		disponibles := payload["disponibles"].([]any)
		if len(disponibles) != 16 {
			t.Fatalf("len(disponibles) = %d, want 16", len(disponibles))
		}
		for _, hora := range disponibles {
			if hora == "10:00" {
				t.Errorf("disponibles %v still lists the occupied 10:00", disponibles)
			}
		}
	})

	t.Run("missing fecha", func(t *testing.T) {
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

		w := testRequest(t, app, http.MethodGet, "/turnos-disponibles", "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed fecha", func(t *testing.T) {
		app := newTestApplication(data.Models{Personas: &mockPersonaStore{}, Contactos: &mockContactoStore{}, Turnos: &mockTurnoStore{}})

		w := testRequest(t, app, http.MethodGet, "/turnos-disponibles?fecha=02-01-2099", "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if msg := errorField(t, w).(string); msg != data.ErrFormatoFecha.Error() {
			t.Errorf("error = %q, want %q", msg, data.ErrFormatoFecha.Error())
		}
	})
}
