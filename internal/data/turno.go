// internal/data/turno.go
// Turno records plus the booking agenda rules: the daily window, the
// 30-minute grid, the cancellation limit and the free-slot computation.
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lfernandez/turnos-api/internal/validator"
)

// Turno estados. Turnos are created "pendiente"; "cancelado" frees the slot
// and counts against the owner's recent-cancellation limit.
const (
	EstadoPendiente = "pendiente"
	EstadoCancelado = "cancelado"
)

// Agenda parameters. The booking window is [09:00, 17:00] inclusive on a
// 30-minute grid, which yields 17 candidate slots per day. A persona with
// LimiteCancelados or more cancelled turnos dated within the trailing
// VentanaCancelados days may not book a new one.
const (
	AperturaAgenda    = Hora(9 * 60)
	CierreAgenda      = Hora(17 * 60)
	IntervaloAgenda   = 30
	LimiteCancelados  = 5
	VentanaCancelados = 180
)

// Agenda rule violations, in the order the checks run. Their text is shown
// to the client verbatim.
var (
	ErrFechaPasada     = errors.New("no se pueden reservar turnos en fechas pasadas")
	ErrFueraDeAgenda   = errors.New("el horario debe estar entre las 09:00 y las 17:00")
	ErrHoraDesalineada = errors.New("los turnos se otorgan cada 30 minutos, en el minuto 00 o 30")
)

// ValidarHorario checks a requested slot against the agenda rules and
// returns the first violated one: no past dates, inside the daily window,
// aligned to the 30-minute grid. hoy is today's date; booking for today is
// allowed.
func ValidarHorario(fecha Fecha, hora Hora, hoy Fecha) error {
	switch {
	case fecha.Before(hoy.Time):
		return ErrFechaPasada
	case hora < AperturaAgenda || hora > CierreAgenda:
		return ErrFueraDeAgenda
	case hora.Minuto() != 0 && hora.Minuto() != IntervaloAgenda:
		return ErrHoraDesalineada
	}
	return nil
}

// HorariosAgenda returns every bookable Hora for one day, in ascending
// order: 09:00 through 17:00 inclusive, stepping 30 minutes.
func HorariosAgenda() []Hora {
	horarios := []Hora{}
	for h := AperturaAgenda; h <= CierreAgenda; h += IntervaloAgenda {
		horarios = append(horarios, h)
	}
	return horarios
}

// HorariosLibres returns the agenda candidates minus the occupied horas,
// preserving ascending order. Occupied values outside the agenda grid are
// ignored.
func HorariosLibres(ocupadas []Hora) []Hora {
	ocupada := make(map[Hora]bool, len(ocupadas))
	for _, h := range ocupadas {
		ocupada[h] = true
	}

	libres := []Hora{}
	for _, h := range HorariosAgenda() {
		if !ocupada[h] {
			libres = append(libres, h)
		}
	}
	return libres
}

// Turno represents a booked appointment slot belonging to one persona.
type Turno struct {
	ID        int64     `json:"id"`         // Unique identifier assigned by the database
	Fecha     Fecha     `json:"fecha"`      // Appointment date
	Hora      Hora      `json:"hora"`       // Appointment time-of-day
	Estado    string    `json:"estado"`     // "pendiente" or "cancelado"
	PersonaID int64     `json:"persona_id"` // Owning persona
	CreatedAt time.Time `json:"created_at"` // Timestamp when the record was created
}

// CreateTurnoInput holds the fields a client must supply when booking a turno.
// Hora is a pointer so an omitted field is not mistaken for midnight.
type CreateTurnoInput struct {
	Fecha     Fecha `json:"fecha"`
	Hora      *Hora `json:"hora"`
	PersonaID int64 `json:"persona_id"`
}

// ValidarTurno records a validation error for every input field that breaks
// its constraint. The agenda rules (window, alignment, availability) are
// checked separately, after the input is known to be well-formed.
func ValidarTurno(v *validator.Validator, input *CreateTurnoInput) {
	v.Check(!input.Fecha.IsZero(), "fecha", "debe indicarse")
	v.Check(input.Hora != nil, "hora", "debe indicarse")
	v.Check(input.PersonaID > 0, "persona_id", "debe ser un número positivo")
}

// TurnoModel wraps a *sql.DB connection and provides methods for creating,
// reading, cancelling and deleting turno records, plus the agenda queries
// behind the booking checks.
type TurnoModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new turno record to the database.
// After a successful insert, the database-assigned id and created_at values
// are written back into the turno struct.
// Returns ErrTurnoSuperpuesto if a non-cancelled turno already occupies the
// slot; the partial unique index makes this hold even when two requests for
// the same slot race past the handler's availability check.
func (m TurnoModel) Insert(turno *Turno) error {
	query := `
		INSERT INTO turnos (fecha, hora, estado, persona_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.DB.QueryRow(
		query,
		turno.Fecha,
		turno.Hora,
		turno.Estado,
		turno.PersonaID,
	).Scan(&turno.ID, &turno.CreatedAt)

	switch {
	case esViolacionUnica(err, constraintAgendaActiva):
		return ErrTurnoSuperpuesto
	case esViolacionFK(err):
		return ErrRecordNotFound
	}
	return err
}

// Get retrieves a single turno by its primary key.
// Returns ErrRecordNotFound if no turno with the given id exists.
func (m TurnoModel) Get(id int64) (*Turno, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, fecha, hora, estado, persona_id, created_at
		FROM turnos
		WHERE id = $1`

	var turno Turno
	err := m.DB.QueryRow(query, id).Scan(
		&turno.ID,
		&turno.Fecha,
		&turno.Hora,
		&turno.Estado,
		&turno.PersonaID,
		&turno.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &turno, nil
}

// GetAll retrieves every turno ordered by fecha, hora.
func (m TurnoModel) GetAll() ([]*Turno, error) {
	query := `
		SELECT id, fecha, hora, estado, persona_id, created_at
		FROM turnos
		ORDER BY fecha, hora`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turnos := []*Turno{}
	for rows.Next() {
		var turno Turno
		err := rows.Scan(
			&turno.ID,
			&turno.Fecha,
			&turno.Hora,
			&turno.Estado,
			&turno.PersonaID,
			&turno.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		turnos = append(turnos, &turno)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return turnos, nil
}

// Delete removes the turno with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m TurnoModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM turnos WHERE id = $1`

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

// Cancelar marks the turno with the given id as "cancelado" and returns the
// updated record. Cancelling an already-cancelled turno is a no-op that
// still returns the record.
// Returns ErrRecordNotFound if no matching record exists.
func (m TurnoModel) Cancelar(id int64) (*Turno, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		UPDATE turnos
		SET estado = $1
		WHERE id = $2
		RETURNING id, fecha, hora, estado, persona_id, created_at`

	var turno Turno
	err := m.DB.QueryRow(query, EstadoCancelado, id).Scan(
		&turno.ID,
		&turno.Fecha,
		&turno.Hora,
		&turno.Estado,
		&turno.PersonaID,
		&turno.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &turno, nil
}

// ExisteEnHorario reports whether a non-cancelled turno already occupies the
// given (fecha, hora) slot, for any persona.
func (m TurnoModel) ExisteEnHorario(fecha Fecha, hora Hora) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM turnos
			WHERE fecha = $1 AND hora = $2 AND estado <> $3
		)`

	var existe bool
	err := m.DB.QueryRow(query, fecha, hora, EstadoCancelado).Scan(&existe)
	if err != nil {
		return false, err
	}
	return existe, nil
}

// ContarCanceladosDesde counts the persona's cancelled turnos whose fecha
// falls on or after desde.
func (m TurnoModel) ContarCanceladosDesde(personaID int64, desde time.Time) (int, error) {
	query := `
		SELECT count(*) FROM turnos
		WHERE persona_id = $1 AND estado = $2 AND fecha >= $3`

	var total int
	err := m.DB.QueryRow(query, personaID, EstadoCancelado, desde).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// HorasOcupadas returns the horas of every non-cancelled turno on the given
// fecha, in ascending order.
func (m TurnoModel) HorasOcupadas(fecha Fecha) ([]Hora, error) {
	query := `
		SELECT hora FROM turnos
		WHERE fecha = $1 AND estado <> $2
		ORDER BY hora`

	rows, err := m.DB.Query(query, fecha, EstadoCancelado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	horas := []Hora{}
	for rows.Next() {
		var hora Hora
		if err := rows.Scan(&hora); err != nil {
			return nil, err
		}
		horas = append(horas, hora)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return horas, nil
}
