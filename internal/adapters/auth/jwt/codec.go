package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtgo "github.com/dgrijalva/jwt-go"
)

const issuer = "laikavet"

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrSecretRequired = errors.New("jwt secret is required")
)

// Codec firma tokens HS256 cuyo jti es el id de sesión.
// Implementa sessions.TokenCodec.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

func (c *Codec) Issue(sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := jwtgo.StandardClaims{
		Id:        sessionID,
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  c.now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	return jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Parse(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenEmpty
	}

	claims := &jwtgo.StandardClaims{}
	_, err := jwtgo.ParseWithClaims(token, claims, func(t *jwtgo.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse: %w", err)
	}
	if claims.Issuer != issuer || strings.TrimSpace(claims.Id) == "" {
		return "", errors.New("jwt claims missing session id")
	}
	return claims.Id, nil
}
