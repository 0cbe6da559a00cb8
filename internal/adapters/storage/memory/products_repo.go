package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"laikavet/internal/domain/catalog"
)

type productRepo struct {
	mu   sync.RWMutex
	byID map[string]catalog.Product
}

func NewProductRepo() catalog.Repository {
	return &productRepo{
		byID: make(map[string]catalog.Product),
	}
}

func (r *productRepo) List(ctx context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) Insert(ctx context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("product already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *productRepo) Update(ctx context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return catalog.ErrInsufficientStock
	}
	p.Stock += delta
	r.byID[id] = p
	return nil
}
