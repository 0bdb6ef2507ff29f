package service

import (
	"context"

	"eadmin/internal/api"
	"eadmin/internal/apierr"
	"eadmin/internal/domain"
	"eadmin/internal/events"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"

	"github.com/rs/zerolog"
)

type SchoolService struct {
	notifier
	api       SchoolAPI
	abilities AbilitySource
}

func NewSchoolService(client SchoolAPI, abilities AbilitySource, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *SchoolService {
	return &SchoolService{
		notifier:  newNotifier(eventBus, cache, logger),
		api:       client,
		abilities: abilities,
	}
}

func (s *SchoolService) Create(ctx context.Context, in api.SchoolInput) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionCreate, permissions.Of(permissions.SubjectSchools), "criar uma unidade escolar"); err != nil {
		return err
	}
	if err := s.api.CreateSchool(ctx, in); err != nil {
		return s.fail(apierr.CreateSchool, err)
	}

	s.success("Unidade escolar criada com sucesso")
	s.invalidate(ctx, querycache.KeySchools)
	s.publishEvent(events.EventSchoolCreated, events.SchoolEventPayload{Name: in.Name})
	return nil
}

func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionDelete, permissions.Of(permissions.SubjectSchools), "excluir uma unidade escolar"); err != nil {
		return err
	}
	if err := s.api.DeleteSchool(ctx, id); err != nil {
		return s.fail(apierr.DeleteSchoolUnit, err)
	}

	s.success("Unidade escolar excluída com sucesso")
	s.invalidate(ctx, querycache.KeySchools)
	s.publishEvent(events.EventSchoolDeleted, events.SchoolEventPayload{SchoolID: id})
	return nil
}

func (s *SchoolService) List(ctx context.Context, params api.SchoolParams) (models.Page[models.School], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectSchools), "ver as unidades escolares"); err != nil {
		return models.Page[models.School]{}, err
	}
	return s.api.ListSchools(ctx, params)
}

func (s *SchoolService) Teachers(ctx context.Context, schoolID string, params api.PageParams) (models.Page[models.Teacher], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectSchools), "ver os professores da unidade"); err != nil {
		return models.Page[models.Teacher]{}, err
	}
	return s.api.ListSchoolTeachers(ctx, schoolID, params)
}
