package api

import (
	"context"

	"eadmin/internal/models"
	"eadmin/internal/querycache"
)

// CountMetrics returns the dashboard totals.
func (c *Client) CountMetrics(ctx context.Context) (models.CountMetrics, error) {
	var m models.CountMetrics
	err := c.query(ctx, call{
		endpoint: "/admin/metrics/count",
		path:     "/admin/metrics/count",
		cacheKey: querycache.Key(querycache.KeyMetrics, "count"),
	}, &m)
	return m, err
}

func (c *Client) ReservationsByWeekday(ctx context.Context) ([]models.WeekdayCount, error) {
	var out []models.WeekdayCount
	err := c.query(ctx, call{
		endpoint: "/admin/metrics/reservations-by-day-of-week",
		path:     "/admin/metrics/reservations-by-day-of-week",
		cacheKey: querycache.Key(querycache.KeyMetrics, querycache.KeyReservations, "weekday"),
	}, &out)
	return out, err
}

// ReservationsBySpace returns per-space reservation counts of the last 7 days.
func (c *Client) ReservationsBySpace(ctx context.Context) ([]models.SpaceReservationCount, error) {
	var out []models.SpaceReservationCount
	err := c.query(ctx, call{
		endpoint: "/admin/metrics/reservations-by-academic-space-last-7-days",
		path:     "/admin/metrics/reservations-by-academic-space-last-7-days",
		cacheKey: querycache.Key(querycache.KeyMetrics, querycache.KeyReservations, "space"),
	}, &out)
	return out, err
}
