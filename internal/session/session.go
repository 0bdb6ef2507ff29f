// Package session persists the API bearer token between CLI runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eadmin/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "ea@token"

// clockSkew tolerates small differences between our clock and the API's.
const clockSkew = 30 * time.Second

var ErrEmptyToken = errors.New("empty session token")

type Session struct {
	store  domain.KeyValueStore
	logger *zerolog.Logger
	now    func() time.Time
}

func New(store domain.KeyValueStore, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{store: store, logger: logger, now: time.Now}
}

// Token returns the stored token, or "" when there is none. An expired token
// is removed and reported as absent.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		return "", nil
	}

	if Expired(token, s.now()) {
		s.logger.Info().Msg("Session token expired, clearing")
		if err := s.Clear(ctx); err != nil {
			return "", err
		}
		return "", nil
	}
	return token, nil
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

func (s *Session) Authenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read session token")
		return false
	}
	return token != ""
}

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// The second result is false for opaque tokens and tokens without exp.
func ExpiresAt(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token carries an exp claim that has passed. Tokens
// the client cannot inspect are left for the API to judge.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return now.After(exp.Add(clockSkew))
}
