package api

import (
	"context"
	"net/http"
	"net/url"

	"eadmin/internal/models"
	"eadmin/internal/querycache"
)

// ListReservations is the admin listing of every reservation.
func (c *Client) ListReservations(ctx context.Context, params FilterParams) (models.Page[models.Reservation], error) {
	var page models.Page[models.Reservation]
	if err := c.checkRequest(params); err != nil {
		return page, err
	}
	q := params.values()
	err := c.query(ctx, call{
		endpoint: "/admin/reservations",
		path:     "/admin/reservations",
		query:    q,
		cacheKey: querycache.Key(querycache.KeyReservations, q.Encode()),
	}, &page)
	return page, err
}

// ListMyReservations lists the signed-in user's reservations.
func (c *Client) ListMyReservations(ctx context.Context, params MyReservationsParams) (models.Page[models.Reservation], error) {
	var page models.Page[models.Reservation]
	if err := c.checkRequest(params); err != nil {
		return page, err
	}
	q := params.values()
	err := c.query(ctx, call{
		endpoint: "/reservations",
		path:     "/reservations",
		query:    q,
		cacheKey: querycache.Key(querycache.KeyUserReservations, q.Encode()),
	}, &page)
	return page, err
}

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) error {
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/reservations",
		path:     "/reservations",
		body:     in,
	}, nil)
}

func (c *Client) UpdateReservation(ctx context.Context, id string, in ReservationInput) error {
	if err := c.checkID("reservationId", id); err != nil {
		return err
	}
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPut,
		endpoint: "/admin/reservations/{id}",
		path:     "/admin/reservations/" + url.PathEscape(id),
		body:     in,
	}, nil)
}

func (c *Client) CancelReservation(ctx context.Context, id string) error {
	if err := c.checkID("reservationId", id); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPatch,
		endpoint: "/admin/reservations/{id}/cancel",
		path:     "/admin/reservations/" + url.PathEscape(id) + "/cancel",
	}, nil)
}

// ConfirmReservation is the teacher's check-out of a reservation.
func (c *Client) ConfirmReservation(ctx context.Context, id string) error {
	if err := c.checkID("reservationId", id); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPatch,
		endpoint: "/reservations/{id}/checkout",
		path:     "/reservations/" + url.PathEscape(id) + "/checkout",
	}, nil)
}
