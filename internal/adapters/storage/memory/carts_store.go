package memory

import (
	"context"
	"slices"
	"sync"

	"laikavet/internal/domain/cart"
)

type cartStore struct {
	mu     sync.RWMutex
	byUser map[string]cart.Cart
}

func NewCartStore() cart.Store {
	return &cartStore{
		byUser: make(map[string]cart.Cart),
	}
}

func (s *cartStore) Load(ctx context.Context, userID string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUser[userID]
	if !ok {
		return cart.New(userID), nil
	}
	c.Lines = slices.Clone(c.Lines)
	return c, nil
}

func (s *cartStore) Save(ctx context.Context, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Lines = slices.Clone(c.Lines)
	s.byUser[c.UserID] = c
	return nil
}

func (s *cartStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byUser, userID)
	return nil
}
