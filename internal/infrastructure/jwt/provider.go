package jwtinfra

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/go-idverify-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: who the session belongs to and which
// server-side session record backs it.
type Claims struct {
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
}

// NewProvider builds a Provider from cfg.SecretKey. When no secret is
// configured a random ephemeral one is generated, which invalidates every
// outstanding session on restart.
func NewProvider(cfg *config.Config) *Provider {
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("failed to generate session secret: " + err.Error())
		}
		slog.Warn("SECRET_KEY not set, using ephemeral session secret")
	}
	return &Provider{
		secret: secret,
		expiry: time.Duration(cfg.SessionExpiryDays) * 24 * time.Hour,
	}
}

// Expiry returns the configured session lifetime.
func (p *Provider) Expiry() time.Duration { return p.expiry }

func (p *Provider) Sign(email, sessionID string) (string, error) {
	claims := Claims{
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
