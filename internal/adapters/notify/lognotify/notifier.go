// Package lognotify es el notificador por defecto: sólo deja constancia en el log.
package lognotify

import (
	"context"

	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/notify"
)

type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Notifier{log: log.With(map[string]any{"module": "notify"})}
}

func (n *Notifier) AppointmentScheduled(ctx context.Context, e notify.AppointmentEvent) error {
	n.emit(e)
	return nil
}

func (n *Notifier) AppointmentReminder(ctx context.Context, e notify.AppointmentEvent) error {
	n.emit(e)
	return nil
}

func (n *Notifier) emit(e notify.AppointmentEvent) {
	n.log.Info("notification sent", map[string]any{
		"kind":           e.Kind,
		"appointment_id": e.AppointmentID,
		"patient_id":     e.PatientID,
		"vet_id":         e.VetID,
		"date":           e.Date,
		"time":           e.Time,
	})
}
