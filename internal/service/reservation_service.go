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
	"eadmin/internal/reservation"

	"github.com/rs/zerolog"
)

type ReservationService struct {
	notifier
	api       ReservationAPI
	abilities AbilitySource
	validator *reservation.Validator
}

func NewReservationService(client ReservationAPI, abilities AbilitySource, validator *reservation.Validator, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *ReservationService {
	if validator == nil {
		validator = reservation.NewValidator(nil)
	}
	return &ReservationService{
		notifier:  newNotifier(eventBus, cache, logger),
		api:       client,
		abilities: abilities,
		validator: validator,
	}
}

// Create books a space for the signed-in teacher. Form errors are returned
// as validation.FieldErrors before anything is sent.
func (s *ReservationService) Create(ctx context.Context, form reservation.Form) (reservation.Window, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMyReservations), "criar uma reserva"); err != nil {
		return reservation.Window{}, err
	}

	window, err := s.validator.Validate(form)
	if err != nil {
		return reservation.Window{}, err
	}

	if err := s.api.CreateReservation(ctx, api.NewReservationInput(window)); err != nil {
		return reservation.Window{}, s.fail(apierr.CreateReservation, err)
	}

	s.success("Reserva criada com sucesso")
	s.invalidate(ctx, querycache.KeyUserReservations, querycache.KeyMetrics)
	s.publishEvent(events.EventReservationCreated, events.ReservationEventPayload{
		SpaceID: window.SpaceID,
		Start:   window.Start,
		End:     window.End,
	})
	return window, nil
}

// Update moves an existing reservation. Teachers may only update their own
// scheduled reservations.
func (s *ReservationService) Update(ctx context.Context, current models.Reservation, form reservation.Form) (reservation.Window, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionUpdate, permissions.Reservation(current), "alterar esta reserva"); err != nil {
		return reservation.Window{}, err
	}

	window, err := s.validator.ValidateUpdate(reservation.UpdateForm{ID: current.ID, Form: form})
	if err != nil {
		return reservation.Window{}, err
	}

	if err := s.api.UpdateReservation(ctx, current.ID, api.NewReservationInput(window)); err != nil {
		return reservation.Window{}, s.fail(apierr.UpdateReservation, err)
	}

	s.success("Reserva alterada com sucesso")
	s.invalidate(ctx, querycache.KeyReservations)
	s.publishEvent(events.EventReservationUpdated, events.ReservationEventPayload{
		ReservationID: current.ID,
		SpaceID:       window.SpaceID,
		UserID:        current.User.ID,
		Start:         window.Start,
		End:           window.End,
	})
	return window, nil
}

// Cancel cancels any reservation from the admin listing.
func (s *ReservationService) Cancel(ctx context.Context, id string) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectReservation), "cancelar reservas"); err != nil {
		return err
	}
	if err := s.api.CancelReservation(ctx, id); err != nil {
		return s.fail(apierr.CancelReservation, err)
	}

	s.success("Reserva cancelada com sucesso")
	s.invalidate(ctx, querycache.KeyReservations, querycache.KeyMetrics)
	s.publishEvent(events.EventReservationCanceled, events.ReservationEventPayload{ReservationID: id})
	return nil
}

// Confirm is the teacher's check-out of a reservation.
func (s *ReservationService) Confirm(ctx context.Context, id string) error {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMyReservations), "confirmar esta reserva"); err != nil {
		return err
	}
	if err := s.api.ConfirmReservation(ctx, id); err != nil {
		return s.fail(apierr.ConfirmReservation, err)
	}

	s.success("Reserva confirmada com sucesso")
	s.invalidate(ctx, querycache.KeyUserReservations)
	s.publishEvent(events.EventReservationConfirmed, events.ReservationEventPayload{ReservationID: id})
	return nil
}

func (s *ReservationService) ListMine(ctx context.Context, params api.MyReservationsParams) (models.Page[models.Reservation], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMyReservations), "ver suas reservas"); err != nil {
		return models.Page[models.Reservation]{}, err
	}
	return s.api.ListMyReservations(ctx, params)
}

// List is the admin listing of every reservation.
func (s *ReservationService) List(ctx context.Context, params api.FilterParams) (models.Page[models.Reservation], error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectReservation), "ver as reservas"); err != nil {
		return models.Page[models.Reservation]{}, err
	}
	return s.api.ListReservations(ctx, params)
}
