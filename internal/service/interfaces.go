package service

import (
	"context"

	"eadmin/internal/api"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
)

// AuthAPI is the part of the API client the auth service uses.
type AuthAPI interface {
	SignIn(ctx context.Context, req api.SignInRequest) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// TokenSession stores the bearer token between runs.
type TokenSession interface {
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Authenticated(ctx context.Context) bool
}

// AbilitySource resolves the capabilities of the signed-in user.
type AbilitySource interface {
	Ability(ctx context.Context) (permissions.Ability, error)
}

type ReservationAPI interface {
	ListReservations(ctx context.Context, params api.FilterParams) (models.Page[models.Reservation], error)
	ListMyReservations(ctx context.Context, params api.MyReservationsParams) (models.Page[models.Reservation], error)
	CreateReservation(ctx context.Context, in api.ReservationInput) error
	UpdateReservation(ctx context.Context, id string, in api.ReservationInput) error
	CancelReservation(ctx context.Context, id string) error
	ConfirmReservation(ctx context.Context, id string) error
}

type SpaceAPI interface {
	ListAllSpaces(ctx context.Context) ([]models.AcademicSpace, error)
	ListAvailableSpaces(ctx context.Context) ([]models.AcademicSpace, error)
	ListSpaces(ctx context.Context, params api.FilterParams) (models.Page[models.AcademicSpace], error)
	CreateSpace(ctx context.Context, in api.SpaceInput) error
	UpdateSpace(ctx context.Context, id string, in api.SpaceInput) error
	ChangeSpaceStatus(ctx context.Context, id, status string) error
}

type UserAPI interface {
	ListUsers(ctx context.Context, params api.PageParams) (models.Page[models.User], error)
	CreateUser(ctx context.Context, in api.CreateUserInput) error
	UpdateUser(ctx context.Context, in api.UpdateUserInput) error
	DeleteUser(ctx context.Context, id string) error
}

type SchoolAPI interface {
	ListSchools(ctx context.Context, params api.SchoolParams) (models.Page[models.School], error)
	CreateSchool(ctx context.Context, in api.SchoolInput) error
	DeleteSchool(ctx context.Context, id string) error
	ListSchoolTeachers(ctx context.Context, schoolID string, params api.PageParams) (models.Page[models.Teacher], error)
}

type MetricsAPI interface {
	CountMetrics(ctx context.Context) (models.CountMetrics, error)
	ReservationsByWeekday(ctx context.Context) ([]models.WeekdayCount, error)
	ReservationsBySpace(ctx context.Context) ([]models.SpaceReservationCount, error)
}
