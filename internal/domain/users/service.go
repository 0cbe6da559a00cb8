package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"laikavet/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrAuthenticationFailure = errors.New("invalid email or password")
)

const minPasswordLen = 6

// Delay simula la latencia de un backend de autenticación. Debe respetar
// ctx y devolver ctx.Err() si se cancela.
type Delay func(ctx context.Context) error

// FixedDelay espera d o hasta que se cancele ctx.
func FixedDelay(d time.Duration) Delay {
	return func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

type Service struct {
	repo  Repository
	delay Delay
	now   func() time.Time
	log   logger.Logger
}

func NewService(repo Repository, delay Delay, log logger.Logger) *Service {
	if delay == nil {
		delay = FixedDelay(0)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:  repo,
		delay: delay,
		now:   time.Now,
		log:   log.With(map[string]any{"module": "users"}),
	}
}

// HashPassword genera el hash bcrypt de una contraseña.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Authenticate valida credenciales. Cualquier falla de credenciales se
// reporta igual (ErrAuthenticationFailure) para no filtrar qué emails existen.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	if err := s.delay(ctx); err != nil {
		return Identity{}, err
	}

	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Info("login rejected", map[string]any{"reason": "unknown email"})
			return Identity{}, ErrAuthenticationFailure
		}
		return Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		s.log.Info("login rejected", map[string]any{"user_id": u.ID, "reason": "bad password"})
		return Identity{}, ErrAuthenticationFailure
	}

	s.log.Info("login ok", map[string]any{"user_id": u.ID, "role": string(u.Role)})
	return u.Identity(), nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register da de alta un cliente de la tienda. El rol siempre es client.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || len(in.Password) < minPasswordLen {
		return Identity{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, ErrInvalidInput
	}

	if err := s.delay(ctx); err != nil {
		return Identity{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Identity{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Identity{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	u := User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleClient,
		Avatar:       "https://i.pravatar.cc/150?u=" + id,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return Identity{}, err
	}

	s.log.Info("client registered", map[string]any{"user_id": u.ID})
	return u.Identity(), nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// IsVeterinarian resuelve referencias a veterinarios desde turnos e historias.
func (s *Service) IsVeterinarian(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role == RoleVeterinarian, nil
}

// ListByRole lista usuarios de un rol (p.ej. veterinarios para agendar).
func (s *Service) ListByRole(ctx context.Context, role Role) ([]User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(all))
	for _, u := range all {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
