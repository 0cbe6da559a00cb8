package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laikavet/internal/domain/sessions"
	"laikavet/internal/domain/users"

	goredis "github.com/redis/go-redis/v9"
)

// SessionStore guarda cada identidad como JSON bajo laikavet_user:<sid>.
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sid string, id users.Identity, ttl time.Duration) error {
	if sid == "" {
		return errors.New("session id required")
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity failed: %w", err)
	}
	if err := s.client.Set(ctx, sessions.Key(sid), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sid string) (users.Identity, error) {
	data, err := s.client.Get(ctx, sessions.Key(sid)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return users.Identity{}, sessions.ErrNotFound
	}
	if err != nil {
		return users.Identity{}, fmt.Errorf("redis get failed: %w", err)
	}

	var id users.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return users.Identity{}, fmt.Errorf("unmarshal identity failed: %w", err)
	}
	return id, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessions.Key(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
