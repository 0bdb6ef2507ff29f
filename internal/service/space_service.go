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

type SpaceService struct {
	notifier
	api       SpaceAPI
	abilities AbilitySource
}

func NewSpaceService(client SpaceAPI, abilities AbilitySource, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *SpaceService {
	return &SpaceService{
		notifier:  newNotifier(eventBus, cache, logger),
		api:       client,
		abilities: abilities,
	}
}

func (s *SpaceService) Create(ctx context.Context, in api.SpaceInput) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionCreate, permissions.Of(permissions.SubjectSpaces), "criar um espaço acadêmico"); err != nil {
		return err
	}
	in = trimSpace(in)
	if err := s.api.CreateSpace(ctx, in); err != nil {
		return s.fail(apierr.CreateSpace, err)
	}

	s.success("Espaço acadêmico criado com sucesso")
	s.invalidate(ctx, querycache.KeySpaces, querycache.KeyMetrics)
	s.publishEvent(events.EventSpaceCreated, events.SpaceEventPayload{Name: in.Name})
	return nil
}

func (s *SpaceService) Update(ctx context.Context, id string, in api.SpaceInput) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionUpdate, permissions.Of(permissions.SubjectSpaces), "editar um espaço acadêmico"); err != nil {
		return err
	}
	in = trimSpace(in)
	if err := s.api.UpdateSpace(ctx, id, in); err != nil {
		return s.fail(apierr.UpdateSpace, err)
	}

	s.success("Espaço acadêmico editado com sucesso")
	s.invalidate(ctx, querycache.KeySpaces)
	s.publishEvent(events.EventSpaceUpdated, events.SpaceEventPayload{SpaceID: id, Name: in.Name})
	return nil
}

// ToggleStatus flips a space between AVAILABLE and UNAVAILABLE. The cached
// list of all spaces shows the new status right away and is restored if the
// request fails.
func (s *SpaceService) ToggleStatus(ctx context.Context, space models.AcademicSpace) (string, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionUpdate, permissions.Of(permissions.SubjectSpaces), "alterar o status de um espaço acadêmico"); err != nil {
		return "", err
	}

	status := space.ToggledStatus()
	apply := func(spaces []models.AcademicSpace) []models.AcademicSpace {
		out := make([]models.AcademicSpace, len(spaces))
		for i, sp := range spaces {
			if sp.ID == space.ID {
				sp.Status = status
				sp.Available = status == models.SpaceAvailable
			}
			out[i] = sp
		}
		return out
	}
	err := querycache.Optimistic(ctx, s.cache, querycache.KeyAllSpaces, apply, func(ctx context.Context) error {
		return s.api.ChangeSpaceStatus(ctx, space.ID, status)
	})
	if err != nil {
		return "", s.fail(apierr.ChangeSpaceStatus, err)
	}

	// The all-spaces entry already holds the new status.
	s.invalidate(ctx, querycache.KeySpaces+":", querycache.KeyAvailableSpaces)
	s.publishEvent(events.EventSpaceStatusChanged, events.SpaceEventPayload{SpaceID: space.ID, Name: space.RoomName, Status: status})
	return status, nil
}

func (s *SpaceService) List(ctx context.Context, params api.FilterParams) (models.Page[models.AcademicSpace], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectSpaces), "ver os espaços acadêmicos"); err != nil {
		return models.Page[models.AcademicSpace]{}, err
	}
	return s.api.ListSpaces(ctx, params)
}

// All returns every space, for the admin status switches.
func (s *SpaceService) All(ctx context.Context) ([]models.AcademicSpace, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectSpaces), "ver os espaços acadêmicos"); err != nil {
		return nil, err
	}
	return s.api.ListAllSpaces(ctx)
}

// ListAvailable returns the spaces offered when booking.
func (s *SpaceService) ListAvailable(ctx context.Context) ([]models.AcademicSpace, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMyReservations), "reservar espaços"); err != nil {
		return nil, err
	}
	return s.api.ListAvailableSpaces(ctx)
}

func trimSpace(in api.SpaceInput) api.SpaceInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Acronym = strings.TrimSpace(in.Acronym)
	return in
}
