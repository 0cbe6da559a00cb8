package notify

import "context"

const (
	KindScheduled = "appointment.scheduled"
	KindReminder  = "appointment.reminder"
)

// AppointmentEvent es el payload publicado hacia los canales de notificación.
type AppointmentEvent struct {
	Kind          string `json:"kind"`
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	VetID         string `json:"vet_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

// Notifier publica eventos de turnos. Los llamadores tratan los errores
// como no fatales.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, e AppointmentEvent) error
	AppointmentReminder(ctx context.Context, e AppointmentEvent) error
}
