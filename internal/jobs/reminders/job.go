// Package reminders envía el recordatorio de los turnos del día siguiente.
package reminders

import (
	"context"
	"time"

	"laikavet/internal/domain/appointments"
	"laikavet/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

const DefaultSpec = "0 8 * * *"

// Appointments es lo que el job necesita del servicio de turnos.
type Appointments interface {
	ListUpcoming(ctx context.Context, from, to string) ([]appointments.Appointment, error)
	Remind(ctx context.Context, a appointments.Appointment) error
}

// Job implementa cron.Job.
type Job struct {
	appts   Appointments
	now     func() time.Time
	timeout time.Duration
	log     logger.Logger
}

func New(appts Appointments, log logger.Logger) *Job {
	if log == nil {
		log = logger.Discard()
	}
	return &Job{
		appts:   appts,
		now:     time.Now,
		timeout: time.Minute,
		log:     log.With(map[string]any{"module": "reminders"}),
	}
}

func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.RunOnce(ctx)
}

// RunOnce notifica los turnos de mañana y devuelve cuántos se enviaron.
// Un fallo individual se loguea y no corta el resto.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	tomorrow := j.now().AddDate(0, 0, 1).Format(appointments.DateLayout)

	items, err := j.appts.ListUpcoming(ctx, tomorrow, tomorrow)
	if err != nil {
		j.log.Error("list upcoming appointments", map[string]any{"date": tomorrow, "err": err})
		return 0, err
	}

	sent := 0
	for _, a := range items {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := j.appts.Remind(ctx, a); err != nil {
			j.log.Warn("reminder failed", map[string]any{
				"appointment_id": a.ID,
				"err":            err,
			})
			continue
		}
		sent++
	}

	j.log.Info("reminders sent", map[string]any{
		"date":  tomorrow,
		"total": len(items),
		"sent":  sent,
	})
	return sent, nil
}

// Schedule registra el job en c. spec vacío usa DefaultSpec.
func Schedule(c *cron.Cron, spec string, job cron.Job) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	return c.AddJob(spec, job)
}
