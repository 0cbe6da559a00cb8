package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"laikavet/internal/domain/users"
	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("session not found")
)

// KeyPrefix es el prefijo bajo el cual se guarda la identidad de cada sesión.
const KeyPrefix = "laikavet_user:"

const DefaultTTL = 24 * time.Hour

// Key arma la clave de almacenamiento de una sesión.
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}

// Store guarda la identidad serializada de cada sesión abierta.
type Store interface {
	Save(ctx context.Context, sessionID string, id users.Identity, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (users.Identity, error)
	Delete(ctx context.Context, sessionID string) error
}

// TokenCodec emite y valida los tokens entregados al cliente.
type TokenCodec interface {
	Issue(sessionID, userID string, expiresAt time.Time) (string, error)
	Parse(token string) (sessionID string, err error)
}

type Service struct {
	store Store
	codec TokenCodec
	ttl   time.Duration
	now   func() time.Time
	log   logger.Logger
}

func NewService(store Store, codec TokenCodec, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store: store,
		codec: codec,
		ttl:   ttl,
		now:   time.Now,
		log:   log.With(map[string]any{"module": "sessions"}),
	}
}

// Open persiste la identidad y devuelve el token de la nueva sesión.
func (s *Service) Open(ctx context.Context, id users.Identity) (string, error) {
	if strings.TrimSpace(id.ID) == "" {
		return "", errors.New("sessions: identity without id")
	}

	sid := uuid.NewString()
	if err := s.store.Save(ctx, sid, id, s.ttl); err != nil {
		return "", fmt.Errorf("sessions: save: %w", err)
	}
	token, err := s.codec.Issue(sid, id.ID, s.now().Add(s.ttl))
	if err != nil {
		_ = s.store.Delete(ctx, sid)
		return "", fmt.Errorf("sessions: issue token: %w", err)
	}

	s.log.Info("session opened", map[string]any{"user_id": id.ID, "role": string(id.Role)})
	return token, nil
}

// Lookup resuelve la identidad de un token vigente.
func (s *Service) Lookup(ctx context.Context, token string) (users.Identity, string, error) {
	sid, err := s.codec.Parse(token)
	if err != nil {
		return users.Identity{}, "", auth.ErrInvalidToken
	}
	id, err := s.store.Load(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return users.Identity{}, "", auth.ErrInvalidToken
		}
		return users.Identity{}, "", err
	}
	return id, sid, nil
}

// Close invalida la sesión del token. El token deja de verificar aunque
// su firma siga vigente.
func (s *Service) Close(ctx context.Context, token string) error {
	_, sid, err := s.Lookup(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		return err
	}
	s.log.Info("session closed", map[string]any{"session_id": sid})
	return nil
}

// Verify implementa auth.AuthVerifier.
func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	id, sid, err := s.Lookup(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{
		UserID:    id.ID,
		Name:      id.Name,
		Email:     id.Email,
		Role:      string(id.Role),
		Avatar:    id.Avatar,
		SessionID: sid,
	}, nil
}
