// internal/data/contacto.go
package data

import (
	"database/sql"
	"time"

	"github.com/lfernandez/turnos-api/internal/validator"
)

// Contacto represents a persona's contact details.
// Each persona has at most one contacto, enforced by a unique constraint
// on persona_id.
type Contacto struct {
	ID        int64     `json:"id"`         // Unique identifier assigned by the database
	Email     string    `json:"email"`      // Contact email address
	Telefono  string    `json:"telefono"`   // Phone number, kept as text to preserve prefixes
	Direccion string    `json:"direccion"`  // Street address
	Localidad string    `json:"localidad"`  // City or locality
	PersonaID int64     `json:"persona_id"` // Owning persona
	CreatedAt time.Time `json:"created_at"` // Timestamp when the record was created
}

// CreateContactoInput holds the fields a client must supply when creating a new contacto.
type CreateContactoInput struct {
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Localidad string `json:"localidad"`
	PersonaID int64  `json:"persona_id"`
}

// ValidarContacto records a validation error for every input field that
// breaks its constraint. The email check uses validator.EmailRX; its raw
// message is later replaced by a friendlier one before the response goes out.
func ValidarContacto(v *validator.Validator, input *CreateContactoInput) {
	v.Check(input.Email != "", "email", "debe indicarse")
	v.Check(validator.Matches(input.Email, validator.EmailRX), "email", "formato inválido")
	v.Check(input.Telefono != "", "telefono", "debe indicarse")
	v.Check(input.Direccion != "", "direccion", "debe indicarse")
	v.Check(input.Localidad != "", "localidad", "debe indicarse")
	v.Check(input.PersonaID > 0, "persona_id", "debe ser un número positivo")
}

// ContactoModel wraps a *sql.DB connection and provides methods for
// creating and reading contacto records.
type ContactoModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new contacto record to the database.
// After a successful insert, the database-assigned id and created_at values
// are written back into the contacto struct.
// Returns ErrContactoDuplicado if the persona already has a contacto, and
// ErrRecordNotFound if the referenced persona does not exist.
func (m ContactoModel) Insert(contacto *Contacto) error {
	query := `
		INSERT INTO contactos (email, telefono, direccion, localidad, persona_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := m.DB.QueryRow(
		query,
		contacto.Email,
		contacto.Telefono,
		contacto.Direccion,
		contacto.Localidad,
		contacto.PersonaID,
	).Scan(&contacto.ID, &contacto.CreatedAt)

	switch {
	case esViolacionUnica(err, constraintContactoUnico):
		return ErrContactoDuplicado
	case esViolacionFK(err):
		return ErrRecordNotFound
	}
	return err
}

// GetAll retrieves every contacto ordered by id.
func (m ContactoModel) GetAll() ([]*Contacto, error) {
	query := `
		SELECT id, email, telefono, direccion, localidad, persona_id, created_at
		FROM contactos
		ORDER BY id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contactos := []*Contacto{}
	for rows.Next() {
		var contacto Contacto
		err := rows.Scan(
			&contacto.ID,
			&contacto.Email,
			&contacto.Telefono,
			&contacto.Direccion,
			&contacto.Localidad,
			&contacto.PersonaID,
			&contacto.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		contactos = append(contactos, &contacto)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return contactos, nil
}
