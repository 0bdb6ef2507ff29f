package models

// CountMetrics holds the dashboard totals.
type CountMetrics struct {
	Reservations   int `json:"reservations"`
	AcademicSpaces int `json:"academicSpaces"`
	Users          int `json:"users"`
}

// WeekdayCount is the number of reservations on one day of the week (0 = Sunday).
type WeekdayCount struct {
	DayOfWeek int `json:"dayofweek" validate:"gte=0,lte=6"`
	Count     int `json:"count" validate:"gte=0"`
}

// SpaceReservationCount is the number of reservations of one space in the last 7 days.
type SpaceReservationCount struct {
	AcademicSpaceID string `json:"academicspaceid" validate:"required"`
	RoomName        string `json:"roomname"`
	Acronym         string `json:"acronym"`
	Count           int    `json:"count" validate:"gte=0"`
}
