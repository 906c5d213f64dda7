// internal/data/persona_test.go
package data

import (
	"testing"
	"time"

	"github.com/lfernandez/turnos-api/internal/validator"
)

func TestEdadAl(t *testing.T) {
	persona := &Persona{FechaNacimiento: NuevaFecha(2004, time.May, 30)}

	tests := []struct {
		name string
		ref  time.Time
		want int
	}{
		{"before birthday", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 20},
		{"day before birthday", time.Date(2025, time.May, 29, 0, 0, 0, 0, time.UTC), 20},
		{"on birthday", time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC), 21},
		{"after birthday", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), 21},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := persona.EdadAl(tc.ref); got != tc.want {
				t.Errorf("EdadAl(%s) = %d, want %d", tc.ref.Format(FormatoFecha), got, tc.want)
			}
		})
	}
}

func TestValidarPersona(t *testing.T) {
	hoy := NuevaFecha(2025, time.June, 1)
	habilitado := true

	t.Run("valid input", func(t *testing.T) {
		v := validator.New()
		ValidarPersona(v, &CreatePersonaInput{
			Nombre:          "Ana López",
			DNI:             22333444,
			FechaNacimiento: NuevaFecha(1990, time.February, 10),
			Habilitado:      &habilitado,
		}, hoy)
		if !v.Valid() {
			t.Errorf("unexpected validation errors: %v", v.Errors)
		}
	})

	t.Run("future birth date", func(t *testing.T) {
		v := validator.New()
		ValidarPersona(v, &CreatePersonaInput{
			Nombre:          "Ana López",
			DNI:             22333444,
			FechaNacimiento: NuevaFecha(2099, time.February, 10),
			Habilitado:      &habilitado,
		}, hoy)
		if _, ok := v.Errors["fecha_nacimiento"]; !ok {
			t.Errorf("errors %v missing fecha_nacimiento", v.Errors)
		}
	})

	t.Run("everything missing", func(t *testing.T) {
		v := validator.New()
		ValidarPersona(v, &CreatePersonaInput{}, hoy)
		for _, campo := range []string{"nombre", "dni", "fecha_nacimiento", "habilitado"} {
			if _, ok := v.Errors[campo]; !ok {
				t.Errorf("errors %v missing %s", v.Errors, campo)
			}
		}
	})
}
