package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eadmin/internal/api"
	"eadmin/internal/apierr"
	"eadmin/internal/domain"
	"eadmin/internal/events"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"

	"github.com/rs/zerolog"
)

// ErrNotSignedIn is returned when an action needs a session and there is none.
var ErrNotSignedIn = errors.New("not signed in")

type AuthService struct {
	notifier
	api     AuthAPI
	session TokenSession

	mu   sync.Mutex
	user *models.User
}

func NewAuthService(client AuthAPI, session TokenSession, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		notifier: newNotifier(eventBus, cache, logger),
		api:      client,
		session:  session,
	}
}

// SignIn exchanges the credentials for a token and stores it.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	req := api.SignInRequest{Email: strings.TrimSpace(email), Password: password}
	token, err := s.api.SignIn(ctx, req)
	if err != nil {
		return nil, s.fail(apierr.SignIn, err)
	}
	if err := s.session.SetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("store session token: %w", err)
	}

	// Cached queries belong to the previous session.
	s.forget(ctx)
	s.invalidate(ctx, "")
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("Signed in")
	s.publishEvent(events.EventSessionStarted, events.SessionEventPayload{UserID: user.ID, Email: user.Email})
	s.success("Login realizado com sucesso")
	return user, nil
}

// SignOut removes the token and every cached query. Local state is dropped
// even when the token store fails, and the failure is returned.
func (s *AuthService) SignOut(ctx context.Context) error {
	clearErr := s.session.Clear(ctx)
	s.forget(ctx)
	s.invalidate(ctx, "")
	if clearErr != nil {
		s.logger.Error().Err(clearErr).Msg("Failed to clear session token")
		return fmt.Errorf("clear session: %w", clearErr)
	}
	s.publishEvent(events.EventSessionEnded, events.SessionEventPayload{Reason: "sign_out"})
	return nil
}

// HandleUnauthorized runs after the API rejected the session token. The
// client has already cleared the token.
func (s *AuthService) HandleUnauthorized() {
	ctx := context.Background()
	s.forget(ctx)
	s.invalidate(ctx, "")
	s.publishEvent(events.EventSessionEnded, events.SessionEventPayload{Reason: "expired"})
	s.toast(events.ToastInfo, "Sessão expirada, faça login novamente")
}

// CurrentUser returns the signed-in user, loading it once per session.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return s.user, nil
	}
	if !s.session.Authenticated(ctx) {
		s.invalidate(ctx, "")
		return nil, ErrNotSignedIn
	}

	user, err := querycache.Fetch(ctx, s.cache, querycache.KeyCurrentUser, func(ctx context.Context) (models.User, error) {
		u, err := s.api.CurrentUser(ctx)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, err
	}
	s.user = &user
	return s.user, nil
}

// Ability is the capability set of the signed-in user. Without a session it
// is empty.
func (s *AuthService) Ability(ctx context.Context) (permissions.Ability, error) {
	user, err := s.CurrentUser(ctx)
	if errors.Is(err, ErrNotSignedIn) {
		return permissions.For(nil), nil
	}
	if err != nil {
		return permissions.Ability{}, err
	}
	return permissions.For(user), nil
}

func (s *AuthService) forget(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, querycache.KeyCurrentUser); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drop cached user")
		}
	}
}
