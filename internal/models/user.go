package models

type User struct {
	ID            string      `json:"id" validate:"required"`
	Name          string      `json:"name" validate:"required"`
	Email         string      `json:"email" validate:"required"`
	Role          string      `json:"role" validate:"required"`
	ContactNumber string      `json:"contactNumber,omitempty"`
	Course        string      `json:"course,omitempty"`
	SchoolUnit    *SchoolUnit `json:"schoolUnit,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SchoolUnit is the school affiliation embedded in teacher records.
type SchoolUnit struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name,omitempty"`
	Type          string    `json:"type,omitempty"`
	State         string    `json:"state,omitempty"`
	City          string    `json:"city,omitempty"`
	Address       string    `json:"address,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	CreatedAt     *DateTime `json:"createdAt,omitempty"`
}

// Teacher is a user listed under a school unit.
type Teacher struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	Course        string `json:"course,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
}
