package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"laikavet/internal/domain/sales"
)

type saleRepo struct {
	mu  sync.RWMutex
	all []sales.Sale
}

func NewSaleRepo() sales.Repository {
	return &saleRepo{}
}

func (r *saleRepo) Insert(ctx context.Context, s sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("sale id required")
	}
	s.Items = slices.Clone(s.Items)
	r.all = append(r.all, s)
	return nil
}

func (r *saleRepo) List(ctx context.Context) ([]sales.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sales.Sale, 0, len(r.all))
	for _, s := range r.all {
		s.Items = slices.Clone(s.Items)
		out = append(out, s)
	}
	return out, nil
}
