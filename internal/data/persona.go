// Package data provides the data models and database interaction logic
// for the turnos booking system.
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lfernandez/turnos-api/internal/validator"
)

// Persona represents a single person record stored in the database.
// It maps directly to a row in the "personas" table, except for Edad, which
// is derived from FechaNacimiento at read time and never persisted.
type Persona struct {
	ID              int64     `json:"id"`               // Unique identifier assigned by the database
	Nombre          string    `json:"nombre"`           // Full name
	Edad            int       `json:"edad"`             // Age in full years, derived on read
	DNI             int64     `json:"dni"`              // National ID number, unique across personas
	FechaNacimiento Fecha     `json:"fecha_nacimiento"` // Birth date
	Habilitado      bool      `json:"habilitado"`       // Whether the persona may operate
	CreatedAt       time.Time `json:"created_at"`       // Timestamp when the record was created
}

// EdadAl returns the persona's age in full years as of the given instant.
// One year is subtracted when the birthday has not yet occurred in ref's year.
func (p *Persona) EdadAl(ref time.Time) int {
	nacimiento := p.FechaNacimiento
	edad := ref.Year() - nacimiento.Year()
	if ref.Month() < nacimiento.Month() ||
		(ref.Month() == nacimiento.Month() && ref.Day() < nacimiento.Day()) {
		edad--
	}
	return edad
}

// CreatePersonaInput holds the fields a client must supply when creating a new persona.
// Habilitado is a pointer so "omitted" and "false" can be told apart: the
// field is required and must be sent explicitly.
type CreatePersonaInput struct {
	Nombre          string `json:"nombre"`
	DNI             int64  `json:"dni"`
	FechaNacimiento Fecha  `json:"fecha_nacimiento"`
	Habilitado      *bool  `json:"habilitado"`
}

// ValidarPersona records a validation error for every input field that
// breaks its constraint. hoy is the current date; birth dates may not be in
// the future.
func ValidarPersona(v *validator.Validator, input *CreatePersonaInput, hoy Fecha) {
	v.Check(input.Nombre != "", "nombre", "debe indicarse")
	v.Check(input.DNI > 0, "dni", "debe ser un número positivo")
	v.Check(!input.FechaNacimiento.IsZero(), "fecha_nacimiento", "debe indicarse")
	v.Check(!input.FechaNacimiento.After(hoy.Time), "fecha_nacimiento", "no puede ser una fecha futura")
	v.Check(input.Habilitado != nil, "habilitado", "debe indicarse")
}

// PersonaModel wraps a *sql.DB connection and provides methods for
// creating, reading and deleting persona records.
type PersonaModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new persona record to the database.
// After a successful insert, the database-assigned id and created_at values
// are written back into the persona struct.
// Returns ErrDNIDuplicado if the dni is already registered.
func (m PersonaModel) Insert(persona *Persona) error {
	query := `
		INSERT INTO personas (nombre, dni, fecha_nacimiento, habilitado)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.DB.QueryRow(
		query,
		persona.Nombre,
		persona.DNI,
		persona.FechaNacimiento,
		persona.Habilitado,
	).Scan(&persona.ID, &persona.CreatedAt)

	if esViolacionUnica(err, constraintDNI) {
		return ErrDNIDuplicado
	}
	return err
}

// Get retrieves a single persona by its primary key.
// Returns ErrRecordNotFound if no persona with the given id exists.
func (m PersonaModel) Get(id int64) (*Persona, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, nombre, dni, fecha_nacimiento, habilitado, created_at
		FROM personas
		WHERE id = $1`

	var persona Persona
	err := m.DB.QueryRow(query, id).Scan(
		&persona.ID,
		&persona.Nombre,
		&persona.DNI,
		&persona.FechaNacimiento,
		&persona.Habilitado,
		&persona.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &persona, nil
}

// GetAll retrieves every persona ordered by id.
func (m PersonaModel) GetAll() ([]*Persona, error) {
	query := `
		SELECT id, nombre, dni, fecha_nacimiento, habilitado, created_at
		FROM personas
		ORDER BY id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	// Always close the result set when we are done to free the database connection.
	defer rows.Close()

	personas := []*Persona{}
	for rows.Next() {
		var persona Persona
		err := rows.Scan(
			&persona.ID,
			&persona.Nombre,
			&persona.DNI,
			&persona.FechaNacimiento,
			&persona.Habilitado,
			&persona.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		personas = append(personas, &persona)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return personas, nil
}

// Delete removes the persona with the given id from the database.
// Contactos and turnos that reference it are removed by the schema's
// ON DELETE CASCADE. Returns ErrRecordNotFound if no matching record exists.
func (m PersonaModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM personas WHERE id = $1`

	result, err := m.DB.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
