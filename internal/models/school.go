package models

import "strings"

type School struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Type          string   `json:"type,omitempty"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	CreatedAt     DateTime `json:"createdAt"`
}

// Matches reports whether the search term occurs in the name, city or address.
func (s School) Matches(search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(s.City), term) ||
		strings.Contains(strings.ToLower(s.Address), term)
}
