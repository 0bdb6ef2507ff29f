package api

import (
	"net/url"
	"strconv"
	"time"

	"eadmin/internal/models"
	"eadmin/internal/reservation"
)

// PageParams selects one page of a listing.
type PageParams struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"pageSize" validate:"gte=0"`
}

func (p PageParams) normalized() PageParams {
	if p.Page < 1 {
		p.Page = models.DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = models.DefaultPageSize
	}
	return p
}

func (p PageParams) values() url.Values {
	p = p.normalized()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("pageSize", strconv.Itoa(p.PageSize))
	return q
}

// FilterParams is a page of an admin listing filtered on one column.
type FilterParams struct {
	PageParams
	FilterColumn string `json:"nmFilterColumn"`
	FilterValue  string `json:"nmFilterValue"`
}

func (p FilterParams) values() url.Values {
	q := p.PageParams.values()
	if p.FilterColumn != "" && p.FilterValue != "" {
		q.Set("nmFilterColumn", p.FilterColumn)
		q.Set("nmFilterValue", p.FilterValue)
	}
	return q
}

// MyReservationsParams is a page of the signed-in user's reservations.
type MyReservationsParams struct {
	PageParams
	Status string `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED_BY_THE_USER CONFIRMED_BY_THE_ENTERPRISE CANCELED"`
}

func (p MyReservationsParams) values() url.Values {
	q := p.PageParams.values()
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

// SchoolParams pages and searches schools by name, city or address.
type SchoolParams struct {
	PageParams
	Search string `json:"search"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInResponse struct {
	Token string `json:"token" validate:"required"`
}

type SpaceInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
	Acronym     string `json:"acronym" validate:"required"`
}

type spaceStatusInput struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE UNAVAILABLE"`
}

type ReservationInput struct {
	AcademicSpaceID string `json:"academicSpaceId" validate:"required,uuid"`
	StartDateTime   string `json:"startDateTime" validate:"required"`
	EndDateTime     string `json:"endDateTime" validate:"required"`
}

// NewReservationInput builds the request body of a validated window.
func NewReservationInput(w reservation.Window) ReservationInput {
	return ReservationInput{
		AcademicSpaceID: w.SpaceID,
		StartDateTime:   w.Start.Format(time.RFC3339),
		EndDateTime:     w.End.Format(time.RFC3339),
	}
}

type SchoolInput struct {
	Name          string `json:"name" validate:"required,min=2"`
	Address       string `json:"address" validate:"required,min=5"`
	City          string `json:"city" validate:"required,min=2"`
	State         string `json:"state" validate:"required,len=2"`
	ContactNumber string `json:"contactNumber" validate:"required,min=9,max=11"`
	Type          string `json:"type" validate:"required,oneof=PUBLICA PRIVADA"`
}

// CreateUserInput creates an administrator or a teacher. Teachers also need
// a school unit and a course.
type CreateUserInput struct {
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contactNumber" validate:"required,min=9,max=11"`
	Password      string `json:"password" validate:"required,min=1"`
	Name          string `json:"name" validate:"required,min=2"`
	Role          string `json:"role" validate:"required,oneof=ADMIN TEACHER"`
	SchoolUnitID  string `json:"schoolUnitId,omitempty" validate:"required_if=Role TEACHER"`
	Course        string `json:"course,omitempty" validate:"required_if=Role TEACHER,omitempty,min=5"`
}

type UpdateUserInput struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN TEACHER"`
}
