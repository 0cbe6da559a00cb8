package appointments

import "time"

// Type es el motivo del turno.
// @Enum consulta, vacunacion, cirugia, limpieza
type Type string

const (
	TypeConsulta   Type = "consulta"
	TypeVacunacion Type = "vacunacion"
	TypeCirugia    Type = "cirugia"
	TypeLimpieza   Type = "limpieza"
)

func (t Type) Valid() bool {
	switch t {
	case TypeConsulta, TypeVacunacion, TypeCirugia, TypeLimpieza:
		return true
	}
	return false
}

// Status sigue el grafo de transitions.go.
// @Enum pending, confirmed, done, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDone, StatusCancelled:
		return true
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment es un turno entre un paciente y un veterinario.
// Nunca se borra: sólo cambia de estado.
type Appointment struct {
	ID        string
	PatientID string
	VetID     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	Type      Type
	Status    Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// occupies indica si el turno bloquea su franja (date, time, vet).
func (a Appointment) occupies(date, hhmm, vetID string) bool {
	return a.Status != StatusCancelled && a.Date == date && a.Time == hhmm && a.VetID == vetID
}
