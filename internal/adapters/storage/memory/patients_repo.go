package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"laikavet/internal/domain/patients"
)

type patientRepo struct {
	mu   sync.RWMutex
	byID map[string]patients.Patient
}

func NewPatientRepo() patients.Repository {
	return &patientRepo{
		byID: make(map[string]patients.Patient),
	}
}

func (r *patientRepo) List(ctx context.Context) ([]patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]patients.Patient, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePatient(p))
	}
	// Orden por alta, después id (estable en dev).
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *patientRepo) Get(ctx context.Context, id string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return clonePatient(p), nil
}

func (r *patientRepo) Insert(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("patient already exists")
	}
	r.byID[p.ID] = clonePatient(p)
	return nil
}

// Update reemplaza los datos del paciente pero conserva la historia guardada.
func (r *patientRepo) Update(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return patients.ErrNotFound
	}
	p.History = cur.History
	r.byID[p.ID] = p
	return nil
}

func (r *patientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return patients.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *patientRepo) AppendHistory(ctx context.Context, patientID string, e patients.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[patientID]
	if !ok {
		return patients.ErrNotFound
	}
	p.History = append([]patients.HistoryEntry{e}, p.History...)
	r.byID[patientID] = p
	return nil
}

func clonePatient(p patients.Patient) patients.Patient {
	p.History = slices.Clone(p.History)
	if p.History == nil {
		p.History = []patients.HistoryEntry{}
	}
	return p
}
