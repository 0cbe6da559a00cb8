package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"laikavet/internal/domain/checkout"
)

type checkoutRepo struct {
	mu   sync.RWMutex
	byID map[string]checkout.Session
}

func NewCheckoutRepo() checkout.Repository {
	return &checkoutRepo{
		byID: make(map[string]checkout.Session),
	}
}

func (r *checkoutRepo) Insert(ctx context.Context, s checkout.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("checkout id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("checkout already exists")
	}
	r.byID[s.ID] = cloneSession(s)
	return nil
}

func (r *checkoutRepo) Get(ctx context.Context, id string) (checkout.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return checkout.Session{}, checkout.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *checkoutRepo) Update(ctx context.Context, s checkout.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return checkout.ErrNotFound
	}
	r.byID[s.ID] = cloneSession(s)
	return nil
}

func cloneSession(s checkout.Session) checkout.Session {
	s.Lines = slices.Clone(s.Lines)
	if s.Shipping != nil {
		addr := *s.Shipping
		s.Shipping = &addr
	}
	if s.Failure != nil {
		f := *s.Failure
		s.Failure = &f
	}
	return s
}
