package modal

import (
	"time"

	"eadmin/internal/models"
)

// UpdateReservation is the record the edit-reservation dialog opens for.
type UpdateReservation struct {
	ID            string    `json:"id"`
	SpaceID       string    `json:"spaceId"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
}

func UpdateReservationOf(r models.Reservation) UpdateReservation {
	return UpdateReservation{
		ID:            r.ID,
		SpaceID:       r.AcademicSpace.ID,
		StartDateTime: r.StartDateTime.Time,
		EndDateTime:   r.EndDateTime.Time,
	}
}

// CancelReservation is the id of the reservation to cancel.
type CancelReservation string

type UpdateUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func UpdateUserOf(u models.User) UpdateUser {
	return UpdateUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

type DeleteUser struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type DeleteSchoolUnit struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
