package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laikavet/internal/domain/cart"

	goredis "github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix  = "laikavet_cart:"
	DefaultCartTTL = 7 * 24 * time.Hour
)

// CartStore persiste el snapshot del carrito; cada Save renueva el TTL.
type CartStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCartStore(client *goredis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

func (s *CartStore) Load(ctx context.Context, userID string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return cart.New(userID), nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("redis get failed: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.Cart{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	c.UserID = userID
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return c, nil
}

func (s *CartStore) Save(ctx context.Context, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(c.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}
