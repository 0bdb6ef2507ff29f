// Package permissions projects the signed-in user's role onto UI
// capabilities. It is advisory: the API enforces authorization on its own.
package permissions

import "eadmin/internal/models"

type Action string

const (
	ActionShow   Action = "show"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage" // any action
)

type SubjectType string

const (
	SubjectUsers          SubjectType = "users"
	SubjectReservation    SubjectType = "Reservation"
	SubjectSpaces         SubjectType = "spaces"
	SubjectMetrics        SubjectType = "metrics"
	SubjectMyReservations SubjectType = "my-reservations"
	SubjectSchools        SubjectType = "schools"
	SubjectAll            SubjectType = "all" // any subject
)

// Subject is what an action applies to, optionally with the record's data.
type Subject struct {
	Type        SubjectType
	Reservation *ReservationData
}

// ReservationData holds the reservation attributes rules can inspect.
type ReservationData struct {
	UserID string
	Status string
}

// Of is a subject without data.
func Of(t SubjectType) Subject {
	return Subject{Type: t}
}

// Reservation is a reservation subject carrying its owner and status.
func Reservation(r models.Reservation) Subject {
	return Subject{
		Type:        SubjectReservation,
		Reservation: &ReservationData{UserID: r.User.ID, Status: r.Lifecycle()},
	}
}

type condition func(user models.User, s Subject) bool

type rule struct {
	action  Action
	subject SubjectType
	when    condition
}

func (r rule) matches(user models.User, action Action, s Subject) bool {
	if r.action != ActionManage && r.action != action {
		return false
	}
	if r.subject != SubjectAll && r.subject != s.Type {
		return false
	}
	if r.when == nil {
		return true
	}
	return r.when(user, s)
}

func ownScheduledReservation(user models.User, s Subject) bool {
	if s.Reservation == nil {
		return false
	}
	return s.Reservation.UserID == user.ID && s.Reservation.Status == models.StatusScheduled
}

var rulesByRole = map[string][]rule{
	models.RoleAdmin: {
		{action: ActionManage, subject: SubjectAll},
	},
	models.RoleTeacher: {
		{action: ActionUpdate, subject: SubjectReservation, when: ownScheduledReservation},
		{action: ActionShow, subject: SubjectMyReservations},
	},
}

// Can evaluates the rule table for user. A nil user can do nothing.
func Can(user *models.User, action Action, s Subject) bool {
	if user == nil {
		return false
	}
	for _, r := range rulesByRole[user.Role] {
		if r.matches(*user, action, s) {
			return true
		}
	}
	return false
}

// Ability is the capability predicate of one user.
type Ability struct {
	user *models.User
}

// For builds the ability of user. A nil user gets an empty ability.
func For(user *models.User) Ability {
	if user == nil {
		return Ability{}
	}
	u := *user
	return Ability{user: &u}
}

func (a Ability) Can(action Action, s Subject) bool {
	return Can(a.user, action, s)
}

func (a Ability) Cannot(action Action, s Subject) bool {
	return !a.Can(action, s)
}

// User returns the user the ability was built for, or nil.
func (a Ability) User() *models.User {
	return a.user
}
