// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
//
// Each field is an interface so handler tests can swap in in-memory fakes;
// NewModels wires the real PostgreSQL implementations.
type Models struct {
	Personas  PersonaStore
	Contactos ContactoStore
	Turnos    TurnoStore
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB) Models {
	return Models{
		Personas:  PersonaModel{DB: db},
		Contactos: ContactoModel{DB: db},
		Turnos:    TurnoModel{DB: db},
	}
}

// PersonaStore is the persistence surface for the personas table.
type PersonaStore interface {
	Insert(persona *Persona) error
	Get(id int64) (*Persona, error)
	GetAll() ([]*Persona, error)
	Delete(id int64) error
}

// ContactoStore is the persistence surface for the contactos table.
type ContactoStore interface {
	Insert(contacto *Contacto) error
	GetAll() ([]*Contacto, error)
}

// TurnoStore is the persistence surface for the turnos table.
type TurnoStore interface {
	Insert(turno *Turno) error
	Get(id int64) (*Turno, error)
	GetAll() ([]*Turno, error)
	Delete(id int64) error
	Cancelar(id int64) (*Turno, error)
	ExisteEnHorario(fecha Fecha, hora Hora) (bool, error)
	ContarCanceladosDesde(personaID int64, desde time.Time) (int, error)
	HorasOcupadas(fecha Fecha) ([]Hora, error)
}

// Sentinel errors returned by the model layer. Handlers translate them into
// the HTTP status codes the API contract fixes for each case.
var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDNIDuplicado is returned when a persona's dni is already registered.
	ErrDNIDuplicado = errors.New("dni already registered")

	// ErrContactoDuplicado is returned when a persona already has a contacto.
	ErrContactoDuplicado = errors.New("persona already has a contacto")

	// ErrTurnoSuperpuesto is returned when a non-cancelled turno already
	// occupies the requested (fecha, hora) slot.
	ErrTurnoSuperpuesto = errors.New("slot already taken")
)

// Constraint names declared in the migrations. Insert methods match on these
// to translate database violations into the sentinel errors above.
const (
	constraintDNI           = "personas_dni_key"
	constraintContactoUnico = "contactos_persona_id_key"
	constraintAgendaActiva  = "turnos_agenda_activa_idx"
)

// esViolacionUnica reports whether err is a PostgreSQL unique violation on
// the named constraint. The check is on the typed *pq.Error rather than the
// error string, so it survives driver message changes.
func esViolacionUnica(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}

// esViolacionFK reports whether err is a PostgreSQL foreign-key violation,
// i.e. the referenced persona disappeared between the handler's existence
// check and the insert.
func esViolacionFK(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
