package service

import (
	"context"
	"strings"

	"eadmin/internal/api"
	"eadmin/internal/apierr"
	"eadmin/internal/domain"
	"eadmin/internal/events"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"

	"github.com/rs/zerolog"
)

type UserService struct {
	notifier
	api       UserAPI
	abilities AbilitySource
}

func NewUserService(client UserAPI, abilities AbilitySource, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *UserService {
	return &UserService{
		notifier:  newNotifier(eventBus, cache, logger),
		api:       client,
		abilities: abilities,
	}
}

// Create registers an administrator or a teacher.
func (s *UserService) Create(ctx context.Context, in api.CreateUserInput) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionCreate, permissions.Of(permissions.SubjectUsers), "criar usuários"); err != nil {
		return err
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.api.CreateUser(ctx, in); err != nil {
		return s.fail(apierr.CreateUser, err)
	}

	s.success("Usuário criado com sucesso")
	s.invalidate(ctx, querycache.KeyUsers, querycache.KeyTeachers, querycache.KeyMetrics)
	s.publishEvent(events.EventUserCreated, events.UserEventPayload{Email: in.Email, Role: in.Role})
	return nil
}

func (s *UserService) Update(ctx context.Context, in api.UpdateUserInput) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionUpdate, permissions.Of(permissions.SubjectUsers), "editar usuários"); err != nil {
		return err
	}
	if err := s.api.UpdateUser(ctx, in); err != nil {
		return s.fail(apierr.UpdateUser, err)
	}

	s.success("Usuário editado com sucesso")
	s.invalidate(ctx, querycache.KeyUsers, querycache.KeyTeachers)
	s.publishEvent(events.EventUserUpdated, events.UserEventPayload{UserID: in.ID, Email: in.Email, Role: in.Role})
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionDelete, permissions.Of(permissions.SubjectUsers), "excluir usuários"); err != nil {
		return err
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.fail(apierr.DeleteUser, err)
	}

	s.success("Usuário excluído com sucesso")
	s.invalidate(ctx, querycache.KeyUsers, querycache.KeyTeachers, querycache.KeyMetrics)
	s.publishEvent(events.EventUserDeleted, events.UserEventPayload{UserID: id})
	return nil
}

func (s *UserService) List(ctx context.Context, params api.PageParams) (models.Page[models.User], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectUsers), "ver os usuários"); err != nil {
		return models.Page[models.User]{}, err
	}
	return s.api.ListUsers(ctx, params)
}
