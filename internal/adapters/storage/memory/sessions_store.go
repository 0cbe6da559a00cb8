package memory

import (
	"context"
	"errors"
	"time"

	"laikavet/internal/domain/sessions"
	"laikavet/internal/domain/users"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSessionCapacity acota las sesiones vivas en un proceso.
const DefaultSessionCapacity = 4096

type sessionStore struct {
	cache *lru.LRU[string, users.Identity]
}

// NewSessionStore guarda identidades en un LRU con vencimiento. El ttl del
// LRU es el tope; Save no puede extenderlo por entrada.
func NewSessionStore(capacity int, ttl time.Duration) sessions.Store {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	if ttl <= 0 {
		ttl = sessions.DefaultTTL
	}
	return &sessionStore{cache: lru.NewLRU[string, users.Identity](capacity, nil, ttl)}
}

func (s *sessionStore) Save(ctx context.Context, sid string, id users.Identity, ttl time.Duration) error {
	if sid == "" {
		return errors.New("session id required")
	}
	s.cache.Add(sessions.Key(sid), id)
	return nil
}

func (s *sessionStore) Load(ctx context.Context, sid string) (users.Identity, error) {
	id, ok := s.cache.Get(sessions.Key(sid))
	if !ok {
		return users.Identity{}, sessions.ErrNotFound
	}
	return id, nil
}

func (s *sessionStore) Delete(ctx context.Context, sid string) error {
	s.cache.Remove(sessions.Key(sid))
	return nil
}
