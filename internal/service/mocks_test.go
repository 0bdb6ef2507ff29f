package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"eadmin/internal/api"
	"eadmin/internal/events"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"
	"eadmin/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock of the API client.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SignIn(ctx context.Context, req api.SignInRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAPI) ListReservations(ctx context.Context, p api.FilterParams) (models.Page[models.Reservation], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.Reservation]), args.Error(1)
}

func (m *MockAPI) ListMyReservations(ctx context.Context, p api.MyReservationsParams) (models.Page[models.Reservation], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.Reservation]), args.Error(1)
}

func (m *MockAPI) CreateReservation(ctx context.Context, in api.ReservationInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) UpdateReservation(ctx context.Context, id string, in api.ReservationInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockAPI) CancelReservation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ConfirmReservation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ListAllSpaces(ctx context.Context) ([]models.AcademicSpace, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AcademicSpace), args.Error(1)
}

func (m *MockAPI) ListAvailableSpaces(ctx context.Context) ([]models.AcademicSpace, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AcademicSpace), args.Error(1)
}

func (m *MockAPI) ListSpaces(ctx context.Context, p api.FilterParams) (models.Page[models.AcademicSpace], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.AcademicSpace]), args.Error(1)
}

func (m *MockAPI) CreateSpace(ctx context.Context, in api.SpaceInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) UpdateSpace(ctx context.Context, id string, in api.SpaceInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockAPI) ChangeSpaceStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockAPI) ListUsers(ctx context.Context, p api.PageParams) (models.Page[models.User], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.User]), args.Error(1)
}

func (m *MockAPI) CreateUser(ctx context.Context, in api.CreateUserInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) UpdateUser(ctx context.Context, in api.UpdateUserInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ListSchools(ctx context.Context, p api.SchoolParams) (models.Page[models.School], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.School]), args.Error(1)
}

func (m *MockAPI) CreateSchool(ctx context.Context, in api.SchoolInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) DeleteSchool(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ListSchoolTeachers(ctx context.Context, id string, p api.PageParams) (models.Page[models.Teacher], error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(models.Page[models.Teacher]), args.Error(1)
}

func (m *MockAPI) CountMetrics(ctx context.Context) (models.CountMetrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.CountMetrics), args.Error(1)
}

func (m *MockAPI) ReservationsByWeekday(ctx context.Context) ([]models.WeekdayCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.WeekdayCount), args.Error(1)
}

func (m *MockAPI) ReservationsBySpace(ctx context.Context) ([]models.SpaceReservationCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SpaceReservationCount), args.Error(1)
}

// staticAbility always resolves to the ability of user.
type staticAbility struct {
	user *models.User
}

func (s staticAbility) Ability(ctx context.Context) (permissions.Ability, error) {
	return permissions.For(s.user), nil
}

var (
	admin   = &models.User{ID: "admin-1", Name: "Root", Email: "root@ea.com", Role: models.RoleAdmin}
	teacher = &models.User{ID: "teacher-1", Name: "Ana", Email: "ana@ea.com", Role: models.RoleTeacher}
)

// recorder collects toasts and events published on a bus.
type recorder struct {
	mu     sync.Mutex
	toasts []events.Toast
	events []string
}

func newBus(t *testing.T) (*events.EventBus, *recorder) {
	t.Helper()
	bus := events.NewEventBus()
	rec := &recorder{}
	bus.OnToast(func(toast events.Toast) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.toasts = append(rec.toasts, toast)
	})
	for _, typ := range []string{
		events.EventReservationCreated, events.EventReservationUpdated, events.EventReservationCanceled,
		events.EventReservationConfirmed, events.EventSpaceCreated, events.EventSpaceUpdated,
		events.EventSpaceStatusChanged, events.EventUserCreated, events.EventUserUpdated,
		events.EventUserDeleted, events.EventSchoolCreated, events.EventSchoolDeleted,
		events.EventSessionStarted, events.EventSessionEnded,
	} {
		bus.Subscribe(typ, func(e *events.Event) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, e.Type)
			return nil
		})
	}
	return bus, rec
}

func (r *recorder) lastToast() events.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return events.Toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

func (r *recorder) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newCache() *querycache.Cache {
	return querycache.New(repository.NewMemoryCacheRepository(), time.Minute, nil)
}
