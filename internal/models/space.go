package models

// AcademicSpace is a bookable room or facility.
type AcademicSpace struct {
	ID          string `json:"id" validate:"required"`
	RoomName    string `json:"roomName"`
	Acronym     string `json:"acronym"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	Available   bool   `json:"available"`
}

// Label renders the space the way selection lists show it.
func (s AcademicSpace) Label() string {
	return s.Acronym + " - " + s.RoomName
}

// ToggledStatus returns the status the space switches to.
func (s AcademicSpace) ToggledStatus() string {
	if s.Status == SpaceAvailable {
		return SpaceUnavailable
	}
	return SpaceAvailable
}
