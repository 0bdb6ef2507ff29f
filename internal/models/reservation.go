package models

import "encoding/json"

// Reservation is a time-bounded booking of one academic space by one teacher.
type Reservation struct {
	ID                    string          `json:"id" validate:"required"`
	StartDateTime         DateTime        `json:"startDateTime"`
	EndDateTime           DateTime        `json:"endDateTime"`
	AcademicSpace         AcademicSpace   `json:"academicSpace"`
	User                  ReservationUser `json:"user"`
	Status                string          `json:"status"` // lifecycle enum, see Status* constants
	Confirmed             bool            `json:"confirmed"`
	ConfirmedByTheUser    bool            `json:"confirmedByTheUser"`
	ConfirmedByEnterprise bool            `json:"confirmedVyEnterprise"`
	IsScheduled           bool            `json:"isScheduled"`
	Canceled              bool            `json:"canceled"`
}

// Lifecycle is the reservation status. The status field wins when it holds
// a known value; otherwise the status is derived from the flags.
func (r Reservation) Lifecycle() string {
	switch r.Status {
	case StatusScheduled, StatusConfirmedByTheUser, StatusConfirmedByTheEnterprise, StatusCanceled:
		return r.Status
	}

	switch {
	case r.Canceled:
		return StatusCanceled
	case r.ConfirmedByEnterprise:
		return StatusConfirmedByTheEnterprise
	case r.ConfirmedByTheUser:
		return StatusConfirmedByTheUser
	default:
		return StatusScheduled
	}
}

// ReservationUser is the owner reference of a reservation. The API sends
// either a user object or a bare identifier string.
type ReservationUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u *ReservationUser) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*u = ReservationUser{ID: id}
		return nil
	}

	type plain ReservationUser
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = ReservationUser(p)
	return nil
}
