// internal/data/tipos.go
// Value types shared by every table: Fecha (a calendar date with no
// time-of-day) and Hora (a time-of-day with no date). They map to the
// PostgreSQL DATE and TIME column types and to the "YYYY-MM-DD" and "HH:MM"
// strings used in JSON bodies.
package data

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Wire formats for dates and times-of-day.
const (
	FormatoFecha = "2006-01-02" // YYYY-MM-DD
	FormatoHora  = "15:04"      // HH:MM
)

// ErrFormatoFecha and ErrFormatoHora are returned while decoding a request
// body whose date or time strings do not match the expected layout. Their
// text is shown to the client verbatim, so it is written for end users.
var (
	ErrFormatoFecha = errors.New("la fecha debe tener el formato YYYY-MM-DD")
	ErrFormatoHora  = errors.New("la hora debe tener el formato HH:MM")
)

// Fecha is a calendar date. The embedded time.Time always holds midnight UTC,
// so two Fecha values compare equal exactly when they name the same day.
type Fecha struct {
	time.Time
}

// NuevaFecha builds a Fecha from a year, month and day.
func NuevaFecha(anio int, mes time.Month, dia int) Fecha {
	return Fecha{time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)}
}

// FechaDe truncates an arbitrary instant down to its calendar date.
func FechaDe(t time.Time) Fecha {
	return NuevaFecha(t.Year(), t.Month(), t.Day())
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (f Fecha) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.Format(FormatoFecha))), nil
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string.
// Any other shape yields ErrFormatoFecha.
func (f *Fecha) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return ErrFormatoFecha
	}
	t, err := time.Parse(FormatoFecha, s)
	if err != nil {
		return ErrFormatoFecha
	}
	f.Time = t
	return nil
}

// Scan reads a DATE column. lib/pq hands DATE values over as time.Time.
func (f *Fecha) Scan(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into Fecha", value)
	}
	*f = FechaDe(t.UTC())
	return nil
}

// Value writes the date back to a DATE column.
func (f Fecha) Value() (driver.Value, error) {
	return f.Time, nil
}

// Hora is a time-of-day stored as minutes since midnight, so slot arithmetic
// (window bounds, 30-minute alignment) is plain integer math.
type Hora int

// NuevaHora builds an Hora from an hour and minute pair.
func NuevaHora(hora, minuto int) Hora {
	return Hora(hora*60 + minuto)
}

// Minuto returns the minute component (0-59).
func (h Hora) Minuto() int {
	return int(h) % 60
}

// String renders the time-of-day as "HH:MM".
func (h Hora) String() string {
	return fmt.Sprintf("%02d:%02d", int(h)/60, int(h)%60)
}

// MarshalJSON renders the time-of-day as a quoted "HH:MM" string.
func (h Hora) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(h.String())), nil
}

// UnmarshalJSON parses a quoted "HH:MM" string.
// Any other shape yields ErrFormatoHora.
func (h *Hora) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return ErrFormatoHora
	}
	t, err := time.Parse(FormatoHora, s)
	if err != nil {
		return ErrFormatoHora
	}
	*h = NuevaHora(t.Hour(), t.Minute())
	return nil
}

// Scan reads a TIME column. lib/pq hands TIME values over either as a
// time.Time anchored on the zero date or as raw "HH:MM:SS" text.
func (h *Hora) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*h = NuevaHora(v.Hour(), v.Minute())
		return nil
	case []byte:
		return h.scanTexto(string(v))
	case string:
		return h.scanTexto(v)
	}
	return fmt.Errorf("cannot scan %T into Hora", value)
}

func (h *Hora) scanTexto(s string) error {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse(FormatoHora, s)
	}
	if err != nil {
		return fmt.Errorf("cannot scan %q into Hora", s)
	}
	*h = NuevaHora(t.Hour(), t.Minute())
	return nil
}

// Value writes the time-of-day back to a TIME column as "HH:MM".
func (h Hora) Value() (driver.Value, error) {
	return h.String(), nil
}
