package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"laikavet/internal/domain/orders"
)

type orderRepo struct {
	mu     sync.RWMutex
	byUser map[string][]orders.Order
}

func NewOrderRepo() orders.Repository {
	return &orderRepo{
		byUser: make(map[string][]orders.Order),
	}
}

func (r *orderRepo) Insert(ctx context.Context, o orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id required")
	}
	o.Items = slices.Clone(o.Items)
	r.byUser[o.UserID] = append(r.byUser[o.UserID], o)
	return nil
}

// ListByUser devuelve en orden de inserción; el servicio ordena.
func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.byUser[userID]
	out := make([]orders.Order, 0, len(src))
	for _, o := range src {
		o.Items = slices.Clone(o.Items)
		out = append(out, o)
	}
	return out, nil
}
