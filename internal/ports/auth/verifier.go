package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken lo devuelve un verifier cuando el token no es válido,
// expiró o su sesión ya fue cerrada.
var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
