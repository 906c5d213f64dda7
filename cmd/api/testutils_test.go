// cmd/api/testutils_test.go
// Shared helpers for handler tests: an application wired with in-memory
// mock stores, and small request/response utilities.
package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lfernandez/turnos-api/internal/data"

	"github.com/prometheus/client_golang/prometheus"
)

// newTestApplication builds an application with discarded logs, a fresh
// metrics registry, and the rate limiter disabled so tests can hammer the
// router freely.
func newTestApplication(models data.Models) *applicationDependencies {
	var cfg serverConfig
	cfg.environment = "test"
	cfg.limiter.enabled = false

	registry := prometheus.NewRegistry()
	return &applicationDependencies{
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:   models,
		metrics:  nuevasMetricas(registry),
		registry: registry,
	}
}

// testRequest routes one request through the full middleware chain and
// returns the recorded response.
func testRequest(t *testing.T, app *applicationDependencies, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, r)
	return w
}

// decodeBody unmarshals a recorded JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return payload
}

// errorField digs the "error" value out of a decoded error envelope.
func errorField(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()

	payload := decodeBody(t, w)
	value, ok := payload["error"]
	if !ok {
		t.Fatalf("response %q has no error field", w.Body.String())
	}
	return value
}

// personaDePrueba is the sample persona used across handler tests.
func personaDePrueba() *data.Persona {
	return &data.Persona{
		ID:              1,
		Nombre:          "Lucía Fernández",
		DNI:             11111111,
		FechaNacimiento: data.NuevaFecha(2004, time.May, 30),
		Habilitado:      true,
	}
}

// --- mock stores ---

type mockPersonaStore struct {
	insertFn func(*data.Persona) error
	getFn    func(int64) (*data.Persona, error)
	getAllFn func() ([]*data.Persona, error)
	deleteFn func(int64) error
}

func (m *mockPersonaStore) Insert(p *data.Persona) error {
	if m.insertFn != nil {
		return m.insertFn(p)
	}
	return nil
}

func (m *mockPersonaStore) Get(id int64) (*data.Persona, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return personaDePrueba(), nil
}

func (m *mockPersonaStore) GetAll() ([]*data.Persona, error) {
	if m.getAllFn != nil {
		return m.getAllFn()
	}
	return []*data.Persona{}, nil
}

func (m *mockPersonaStore) Delete(id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

type mockContactoStore struct {
	insertFn func(*data.Contacto) error
	getAllFn func() ([]*data.Contacto, error)
}

func (m *mockContactoStore) Insert(c *data.Contacto) error {
	if m.insertFn != nil {
		return m.insertFn(c)
	}
	return nil
}

func (m *mockContactoStore) GetAll() ([]*data.Contacto, error) {
	if m.getAllFn != nil {
		return m.getAllFn()
	}
	return []*data.Contacto{}, nil
}

type mockTurnoStore struct {
	insertFn   func(*data.Turno) error
	getFn      func(int64) (*data.Turno, error)
	getAllFn   func() ([]*data.Turno, error)
	deleteFn   func(int64) error
	cancelarFn func(int64) (*data.Turno, error)
	existeFn   func(data.Fecha, data.Hora) (bool, error)
	contarFn   func(int64, time.Time) (int, error)
	horasFn    func(data.Fecha) ([]data.Hora, error)
}

func (m *mockTurnoStore) Insert(turno *data.Turno) error {
	if m.insertFn != nil {
		return m.insertFn(turno)
	}
	return nil
}

func (m *mockTurnoStore) Get(id int64) (*data.Turno, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockTurnoStore) GetAll() ([]*data.Turno, error) {
	if m.getAllFn != nil {
		return m.getAllFn()
	}
	return []*data.Turno{}, nil
}

func (m *mockTurnoStore) Delete(id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockTurnoStore) Cancelar(id int64) (*data.Turno, error) {
	if m.cancelarFn != nil {
		return m.cancelarFn(id)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockTurnoStore) ExisteEnHorario(fecha data.Fecha, hora data.Hora) (bool, error) {
	if m.existeFn != nil {
		return m.existeFn(fecha, hora)
	}
	return false, nil
}

func (m *mockTurnoStore) ContarCanceladosDesde(personaID int64, desde time.Time) (int, error) {
	if m.contarFn != nil {
		return m.contarFn(personaID, desde)
	}
	return 0, nil
}

func (m *mockTurnoStore) HorasOcupadas(fecha data.Fecha) ([]data.Hora, error) {
	if m.horasFn != nil {
		return m.horasFn(fecha)
	}
	return []data.Hora{}, nil
}

// compile-time interface checks
var (
	_ data.PersonaStore  = (*mockPersonaStore)(nil)
	_ data.ContactoStore = (*mockContactoStore)(nil)
	_ data.TurnoStore    = (*mockTurnoStore)(nil)
)
