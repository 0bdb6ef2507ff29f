package reservation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eadmin/internal/models"
	"eadmin/internal/validation"
)

var brt = time.FixedZone("BRT", -3*60*60)

func testNow() time.Time {
	return time.Date(2025, 5, 10, 14, 30, 0, 0, brt)
}

func newTestValidator() *Validator {
	return NewValidator(FixedClock(testNow()))
}

func fieldErrors(t *testing.T, err error) validation.FieldErrors {
	t.Helper()
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe), "expected field errors, got %v", err)
	return fe
}

func TestValidate_Accepts(t *testing.T) {
	v := newTestValidator()
	spaceID := uuid.NewString()
	tomorrow := testNow().AddDate(0, 0, 1)

	w, err := v.Validate(Form{SpaceID: spaceID, Date: tomorrow, StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	assert.Equal(t, spaceID, w.SpaceID)
	assert.Equal(t, time.Date(2025, 5, 11, 9, 0, 0, 0, brt), w.Start)
	assert.Equal(t, time.Date(2025, 5, 11, 10, 0, 0, 0, brt), w.End)
	assert.Equal(t, time.Hour, w.Duration())
}

func TestValidate_EndNotAfterStart(t *testing.T) {
	v := newTestValidator()
	tomorrow := testNow().AddDate(0, 0, 1)

	cases := []struct{ start, end string }{
		{"10:00", "09:00"},
		{"10:00", "10:00"},
		{"23:59", "00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.start+"-"+tc.end, func(t *testing.T) {
			_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: tomorrow, StartTime: tc.start, EndTime: tc.end})
			fe := fieldErrors(t, err)
			require.Len(t, fe, 1)
			assert.Equal(t, FieldEndTime, fe[0].Field)
			assert.Equal(t, msgEndBeforeStart, fe[0].Message)
		})
	}
}

func TestValidate_StartNotInFuture(t *testing.T) {
	v := newTestValidator()
	today := testNow()

	for _, start := range []string{"08:00", "14:29", "14:30"} {
		t.Run(start, func(t *testing.T) {
			_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: today, StartTime: start, EndTime: "23:00"})
			fe := fieldErrors(t, err)
			require.Len(t, fe, 1)
			assert.Equal(t, FieldStartTime, fe[0].Field)
			assert.Equal(t, msgStartInPast, fe[0].Message)
		})
	}

	_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: today, StartTime: "14:31", EndTime: "15:00"})
	assert.NoError(t, err)
}

func TestValidate_StartRuleRunsFirst(t *testing.T) {
	v := newTestValidator()

	_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: testNow(), StartTime: "10:00", EndTime: "09:00"})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, FieldStartTime, fe[0].Field)
}

func TestValidate_EveryMinuteOfToday(t *testing.T) {
	v := newTestValidator()
	now := testNow()

	for minute := 0; minute < 24*60; minute++ {
		start := fmt.Sprintf("%02d:%02d", minute/60, minute%60)
		_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: now, StartTime: start, EndTime: "23:59"})

		startAt := time.Date(2025, 5, 10, minute/60, minute%60, 0, 0, brt)
		if !startAt.After(now) {
			require.Error(t, err, start)
			msg, ok := fieldErrors(t, err).Get(FieldStartTime)
			require.True(t, ok, start)
			assert.Equal(t, msgStartInPast, msg)
		} else if start != "23:59" {
			assert.NoError(t, err, start)
		}
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	v := newTestValidator()

	_, err := v.Validate(Form{SpaceID: "sala-101", Date: testNow().AddDate(0, 0, -1), StartTime: "25:00", EndTime: "9:00"})
	fe := fieldErrors(t, err)
	assert.Len(t, fe, 4)

	msg, _ := fe.Get(FieldSpaceID)
	assert.Equal(t, msgInvalidSpace, msg)
	msg, _ = fe.Get(FieldDate)
	assert.Equal(t, msgPastDate, msg)
	msg, _ = fe.Get(FieldStartTime)
	assert.Equal(t, msgInvalidTime, msg)
	msg, _ = fe.Get(FieldEndTime)
	assert.Equal(t, msgInvalidTime, msg)

	_, err = v.Validate(Form{SpaceID: uuid.NewString(), StartTime: "09:00", EndTime: "10:00"})
	msg, ok := fieldErrors(t, err).Get(FieldDate)
	assert.True(t, ok)
	assert.Equal(t, msgInvalidDate, msg)

	_, err = v.Validate(Form{})
	assert.Len(t, fieldErrors(t, err), 4)
}

func TestValidate_DateInOtherLocation(t *testing.T) {
	v := newTestValidator()

	// 10 May 14:30 BRT is 11 May 02:30 in Tokyo.
	tokyo := time.FixedZone("JST", 9*60*60)
	date := time.Date(2025, 5, 11, 0, 0, 0, 0, tokyo)

	_, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: date, StartTime: "01:00", EndTime: "02:00"})
	msg, _ := fieldErrors(t, err).Get(FieldStartTime)
	assert.Equal(t, msgStartInPast, msg)

	w, err := v.Validate(Form{SpaceID: uuid.NewString(), Date: date, StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, tokyo, w.Start.Location())
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()
	form := Form{SpaceID: uuid.NewString(), Date: testNow().AddDate(0, 0, 2), StartTime: "07:00", EndTime: "08:30"}

	w, err := v.ValidateUpdate(UpdateForm{ID: uuid.NewString(), Form: form})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, w.Duration())

	_, err = v.ValidateUpdate(UpdateForm{ID: "42", Form: form})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, FieldID, fe[0].Field)

	form.EndTime = "06:00"
	_, err = v.ValidateUpdate(UpdateForm{ID: uuid.NewString(), Form: form})
	msg, _ := fieldErrors(t, err).Get(FieldEndTime)
	assert.Equal(t, msgEndBeforeStart, msg)
}

func TestFormFromReservation(t *testing.T) {
	r := models.Reservation{
		ID:            uuid.NewString(),
		AcademicSpace: models.AcademicSpace{ID: uuid.NewString()},
		StartDateTime: models.DateTime{Time: time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)},
		EndDateTime:   models.DateTime{Time: time.Date(2025, 5, 12, 13, 30, 0, 0, time.UTC)},
	}

	f := FormFromReservation(r, brt)
	assert.Equal(t, r.ID, f.ID)
	assert.Equal(t, r.AcademicSpace.ID, f.SpaceID)
	assert.Equal(t, "09:00", f.StartTime)
	assert.Equal(t, "10:30", f.EndTime)
	assert.Equal(t, time.Date(2025, 5, 12, 0, 0, 0, 0, brt), f.Date)

	w, err := newTestValidator().ValidateUpdate(f)
	require.NoError(t, err)
	assert.True(t, w.Start.Equal(r.StartDateTime.Time))
	assert.True(t, w.End.Equal(r.EndDateTime.Time))
}
