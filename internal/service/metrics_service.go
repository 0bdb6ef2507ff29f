package service

import (
	"context"
	"sort"

	"eadmin/internal/domain"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"

	"github.com/rs/zerolog"
)

type MetricsService struct {
	notifier
	api       MetricsAPI
	abilities AbilitySource
}

func NewMetricsService(client MetricsAPI, abilities AbilitySource, eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) *MetricsService {
	return &MetricsService{
		notifier:  newNotifier(eventBus, cache, logger),
		api:       client,
		abilities: abilities,
	}
}

func (s *MetricsService) Counts(ctx context.Context) (models.CountMetrics, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMetrics), "ver as métricas"); err != nil {
		return models.CountMetrics{}, err
	}
	return s.api.CountMetrics(ctx)
}

// ByWeekday returns one entry per day of the week, Sunday first. Days
// without reservations have a zero count.
func (s *MetricsService) ByWeekday(ctx context.Context) ([]models.WeekdayCount, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMetrics), "ver as métricas"); err != nil {
		return nil, err
	}
	counts, err := s.api.ReservationsByWeekday(ctx)
	if err != nil {
		return nil, err
	}

	week := make([]models.WeekdayCount, 7)
	for i := range week {
		week[i].DayOfWeek = i
	}
	for _, c := range counts {
		week[c.DayOfWeek].Count += c.Count
	}
	return week, nil
}

// BySpace returns the last 7 days of reservations per space, busiest first.
func (s *MetricsService) BySpace(ctx context.Context) ([]models.SpaceReservationCount, error) {
	if err := s.authorize(ctx, s.abilities, permissions.ActionShow, permissions.Of(permissions.SubjectMetrics), "ver as métricas"); err != nil {
		return nil, err
	}
	counts, err := s.api.ReservationsBySpace(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
