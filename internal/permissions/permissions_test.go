package permissions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eadmin/internal/models"
)

var (
	allActions  = []Action{ActionShow, ActionCreate, ActionUpdate, ActionDelete, ActionManage}
	allSubjects = []SubjectType{
		SubjectUsers, SubjectReservation, SubjectSpaces, SubjectMetrics,
		SubjectMyReservations, SubjectSchools, SubjectAll,
	}
)

func reservationOf(userID string, scheduled, confirmed, canceled bool) models.Reservation {
	return models.Reservation{
		ID:                 "r1",
		User:               models.ReservationUser{ID: userID},
		IsScheduled:        scheduled,
		ConfirmedByTheUser: confirmed,
		Canceled:           canceled,
	}
}

func TestAdminCanEverything(t *testing.T) {
	admin := For(&models.User{ID: "a1", Role: models.RoleAdmin})

	for _, action := range allActions {
		for _, subject := range allSubjects {
			assert.True(t, admin.Can(action, Of(subject)), "%s %s", action, subject)
		}
		assert.True(t, admin.Can(action, Reservation(reservationOf("someone", false, false, true))))
	}
}

func TestTeacherRules(t *testing.T) {
	teacher := &models.User{ID: "t1", Role: models.RoleTeacher}
	ability := For(teacher)

	tests := []struct {
		name    string
		action  Action
		subject Subject
		want    bool
	}{
		{"UpdateOwnScheduled", ActionUpdate, Reservation(reservationOf("t1", true, false, false)), true},
		{"UpdateOthersScheduled", ActionUpdate, Reservation(reservationOf("t2", true, false, false)), false},
		{"UpdateOwnConfirmed", ActionUpdate, Reservation(reservationOf("t1", false, true, false)), false},
		{"UpdateOwnCanceled", ActionUpdate, Reservation(reservationOf("t1", true, false, true)), false},
		{"UpdateWithoutData", ActionUpdate, Of(SubjectReservation), false},
		{"DeleteOwnScheduled", ActionDelete, Reservation(reservationOf("t1", true, false, false)), false},
		{"ManageOwnScheduled", ActionManage, Reservation(reservationOf("t1", true, false, false)), false},
		{"ShowMyReservations", ActionShow, Of(SubjectMyReservations), true},
		{"UpdateMyReservations", ActionUpdate, Of(SubjectMyReservations), false},
		{"ShowUsers", ActionShow, Of(SubjectUsers), false},
		{"ShowSpaces", ActionShow, Of(SubjectSpaces), false},
		{"ShowMetrics", ActionShow, Of(SubjectMetrics), false},
		{"CreateSchools", ActionCreate, Of(SubjectSchools), false},
		{"ManageAll", ActionManage, Of(SubjectAll), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ability.Can(tt.action, tt.subject))
			assert.Equal(t, !tt.want, ability.Cannot(tt.action, tt.subject))
			assert.Equal(t, tt.want, Can(teacher, tt.action, tt.subject))
		})
	}
}

func TestTeacherRulesFromWireStatus(t *testing.T) {
	teacher := &models.User{ID: "t1", Role: models.RoleTeacher}

	tests := []struct {
		status string
		want   bool
	}{
		{models.StatusScheduled, true},
		{models.StatusConfirmedByTheUser, false},
		{models.StatusConfirmedByTheEnterprise, false},
		{models.StatusCanceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			var r models.Reservation
			raw := `{"id":"r1","user":{"id":"t1"},"status":"` + tt.status + `"}`
			require.NoError(t, json.Unmarshal([]byte(raw), &r))

			assert.Equal(t, tt.want, Can(teacher, ActionUpdate, Reservation(r)))
		})
	}
}

func TestNoUser(t *testing.T) {
	ability := For(nil)
	assert.Nil(t, ability.User())

	for _, action := range allActions {
		for _, subject := range allSubjects {
			assert.False(t, ability.Can(action, Of(subject)))
		}
	}
}

func TestUnknownRole(t *testing.T) {
	ability := For(&models.User{ID: "x", Role: "GUEST"})
	assert.False(t, ability.Can(ActionShow, Of(SubjectMyReservations)))
}

func TestFor_CopiesUser(t *testing.T) {
	u := &models.User{ID: "t1", Role: models.RoleTeacher}
	ability := For(u)
	u.Role = models.RoleAdmin

	assert.False(t, ability.Can(ActionManage, Of(SubjectAll)))
	assert.Equal(t, models.RoleTeacher, ability.User().Role)
}
