package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("appointment not found")
	ErrDanglingReference = errors.New("patient or veterinarian does not exist")
	ErrSlotTaken         = errors.New("veterinarian already booked at that time")
)

const notifyTimeout = 5 * time.Second

type PatientLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type VetLookup interface {
	IsVeterinarian(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientLookup
	vets     VetLookup
	notifier notify.Notifier
	now      func() time.Time
	log      logger.Logger

	// serializa el chequeo de franja con la inserción
	mu sync.Mutex
}

func NewService(repo Repository, patients PatientLookup, vets VetLookup, notifier notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:     repo,
		patients: patients,
		vets:     vets,
		notifier: notifier,
		now:      time.Now,
		log:      log.With(map[string]any{"module": "appointments"}),
	}
}

// ListForDate devuelve los turnos del día ordenados por hora.
func (s *Service) ListForDate(ctx context.Context, date string) ([]Appointment, error) {
	date = strings.TrimSpace(date)
	if !validDate(date) {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	sortByDateTime(items)
	return items, nil
}

// ListUpcoming devuelve los turnos no cancelados entre from y to inclusive.
func (s *Service) ListUpcoming(ctx context.Context, from, to string) ([]Appointment, error) {
	if !validDate(from) || !validDate(to) || to < from {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		if a.Status != StatusCancelled {
			out = append(out, a)
		}
	}
	sortByDateTime(out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	return s.repo.Get(ctx, id)
}

type CreateInput struct {
	PatientID string
	VetID     string
	Date      string
	Time      string
	Type      Type
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.VetID = strings.TrimSpace(in.VetID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if in.Type == "" {
		in.Type = TypeConsulta
	}
	if !validDate(in.Date) || !validTime(in.Time) || !in.Type.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	ok, err := s.patients.Exists(ctx, in.PatientID)
	if err != nil {
		return Appointment{}, err
	}
	if !ok {
		return Appointment{}, ErrDanglingReference
	}
	ok, err = s.vets.IsVeterinarian(ctx, in.VetID)
	if err != nil {
		return Appointment{}, err
	}
	if !ok {
		return Appointment{}, ErrDanglingReference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sameDay, err := s.repo.ListByDate(ctx, in.Date)
	if err != nil {
		return Appointment{}, err
	}
	for _, a := range sameDay {
		if a.occupies(in.Date, in.Time, in.VetID) {
			return Appointment{}, ErrSlotTaken
		}
	}

	now := s.now()
	a := Appointment{
		ID:        uuid.NewString(),
		PatientID: in.PatientID,
		VetID:     in.VetID,
		Date:      in.Date,
		Time:      in.Time,
		Type:      in.Type,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment scheduled", map[string]any{
		"appointment_id": a.ID,
		"patient_id":     a.PatientID,
		"vet_id":         a.VetID,
		"date":           a.Date,
		"time":           a.Time,
	})
	s.publishScheduled(ctx, a)
	return a, nil
}

// Transition aplica el cambio de estado si el grafo lo permite.
func (s *Service) Transition(ctx context.Context, id string, to Status) (Appointment, error) {
	if !to.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	next, err := Next(a.Status, to)
	if err != nil {
		return Appointment{}, err
	}

	from := a.Status
	a.Status = next
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment status changed", map[string]any{
		"appointment_id": a.ID,
		"from":           string(from),
		"to":             string(next),
	})
	return a, nil
}

// Remind publica el recordatorio de un turno. Lo usa el job diario.
func (s *Service) Remind(ctx context.Context, a Appointment) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.AppointmentReminder(ctx, toEvent(a, notify.KindReminder))
}

// publishScheduled no propaga errores: la notificación no condiciona el alta.
func (s *Service) publishScheduled(ctx context.Context, a Appointment) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.AppointmentScheduled(ctx, toEvent(a, notify.KindScheduled)); err != nil {
		s.log.Warn("appointment notification failed", map[string]any{
			"appointment_id": a.ID,
			"err":            err,
		})
	}
}

func toEvent(a Appointment, kind string) notify.AppointmentEvent {
	return notify.AppointmentEvent{
		Kind:          kind,
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		VetID:         a.VetID,
		Date:          a.Date,
		Time:          a.Time,
		Type:          string(a.Type),
		Status:        string(a.Status),
	}
}

func sortByDateTime(items []Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		if items[i].Time != items[j].Time {
			return items[i].Time < items[j].Time
		}
		return items[i].ID < items[j].ID
	})
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// validTime exige HH:MM con ceros a la izquierda para que el orden
// lexicográfico coincida con el cronológico.
func validTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
