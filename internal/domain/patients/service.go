package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"laikavet/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("patient not found")
	ErrDanglingReference = errors.New("referenced veterinarian does not exist")
)

// VetLookup resuelve ids de veterinario contra el directorio de usuarios.
type VetLookup interface {
	IsVeterinarian(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo Repository
	vets VetLookup
	now  func() time.Time
	log  logger.Logger
}

func NewService(repo Repository, vets VetLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo: repo,
		vets: vets,
		now:  time.Now,
		log:  log.With(map[string]any{"module": "patients"}),
	}
}

// List filtra por nombre del paciente o del tutor (sin distinguir mayúsculas).
func (s *Service) List(ctx context.Context, query string) ([]Patient, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	out := make([]Patient, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Owner.Name), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Patient, error) {
	return s.repo.Get(ctx, id)
}

// Exists implementa la resolución de pacientes para turnos.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	_, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

type CreateInput struct {
	Name    string
	Species string
	Breed   string
	Age     int
	Weight  float64
	Color   string
	Owner   Owner
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Owner.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	species, ok := ParseSpecies(in.Species)
	if !ok || in.Age < 0 || in.Weight < 0 {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Age:       in.Age,
		Weight:    in.Weight,
		Color:     strings.TrimSpace(in.Color),
		Owner:     trimOwner(in.Owner),
		History:   []HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Patient{}, err
	}

	s.log.Info("patient created", map[string]any{"patient_id": p.ID})
	return p, nil
}

// UpdateInput usa punteros: nil = no tocar. La historia no se edita acá.
type UpdateInput struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *int
	Weight  *float64
	Color   *string
	Owner   *Owner
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Patient, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Patient{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		sp, ok := ParseSpecies(*in.Species)
		if !ok {
			return Patient{}, ErrInvalidInput
		}
		p.Species = sp
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Patient{}, ErrInvalidInput
		}
		p.Age = *in.Age
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Patient{}, ErrInvalidInput
		}
		p.Weight = *in.Weight
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Owner != nil {
		o := trimOwner(*in.Owner)
		if o.Name == "" {
			return Patient{}, ErrInvalidInput
		}
		p.Owner = o
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("patient deleted", map[string]any{"patient_id": id})
	return nil
}

type HistoryInput struct {
	VetID        string
	Reason       string
	Diagnosis    string
	Treatment    string
	Observations string
}

// AppendHistory registra una consulta con fecha de hoy. El veterinario debe
// existir en el directorio.
func (s *Service) AppendHistory(ctx context.Context, patientID string, in HistoryInput) (HistoryEntry, error) {
	if strings.TrimSpace(in.Reason) == "" || strings.TrimSpace(in.Diagnosis) == "" {
		return HistoryEntry{}, ErrInvalidInput
	}
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return HistoryEntry{}, err
	}
	ok, err := s.vets.IsVeterinarian(ctx, in.VetID)
	if err != nil {
		return HistoryEntry{}, err
	}
	if !ok {
		return HistoryEntry{}, ErrDanglingReference
	}

	now := s.now()
	e := HistoryEntry{
		ID:           uuid.NewString(),
		Date:         now.Format("2006-01-02"),
		Reason:       strings.TrimSpace(in.Reason),
		Diagnosis:    strings.TrimSpace(in.Diagnosis),
		Treatment:    strings.TrimSpace(in.Treatment),
		Observations: strings.TrimSpace(in.Observations),
		VetID:        in.VetID,
		CreatedAt:    now,
	}
	if err := s.repo.AppendHistory(ctx, patientID, e); err != nil {
		return HistoryEntry{}, err
	}

	s.log.Info("history entry added", map[string]any{"patient_id": patientID, "vet_id": in.VetID})
	return e, nil
}

// History devuelve la historia clínica, más reciente primero.
func (s *Service) History(ctx context.Context, patientID string) ([]HistoryEntry, error) {
	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return p.History, nil
}

func trimOwner(o Owner) Owner {
	return Owner{
		Name:    strings.TrimSpace(o.Name),
		Phone:   strings.TrimSpace(o.Phone),
		Email:   strings.TrimSpace(o.Email),
		Address: strings.TrimSpace(o.Address),
	}
}
