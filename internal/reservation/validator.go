// Package reservation validates reservation forms before they are submitted.
// Overlap detection belongs to the remote API; this package only rejects
// windows that can never be valid.
package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"eadmin/internal/models"
	"eadmin/internal/validation"
)

// Form field names used for error attribution.
const (
	FieldID        = "id"
	FieldSpaceID   = "spaceId"
	FieldDate      = "date"
	FieldStartTime = "startTime"
	FieldEndTime   = "endTime"
)

const (
	msgInvalidSpace   = "Informe um espaço acadêmico válido"
	msgInvalidID      = "Informe uma reserva válida"
	msgInvalidDate    = "Informe uma data válida"
	msgPastDate       = "A data deve ser igual ou posterior a hoje"
	msgInvalidTime    = "Informe um horário valido"
	msgStartInPast    = "Horário de inicio deve ser maior que o horário atual"
	msgEndBeforeStart = "Horário de finalização deve ser maior que o horário de inicio"
)

var fieldMessages = map[string]string{
	FieldID:        msgInvalidID,
	FieldSpaceID:   msgInvalidSpace,
	FieldStartTime: msgInvalidTime,
	FieldEndTime:   msgInvalidTime,
}

// Form is a candidate reservation as entered by the user. Date carries the
// calendar day and its location; its time of day is ignored.
type Form struct {
	SpaceID   string    `json:"spaceId" validate:"required,uuid"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime" validate:"required,hhmm"`
	EndTime   string    `json:"endTime" validate:"required,hhmm"`
}

// UpdateForm is a Form for an existing reservation.
type UpdateForm struct {
	ID string `json:"id" validate:"required,uuid"`
	Form
}

// Window is a validated reservation with absolute boundaries.
type Window struct {
	SpaceID string
	Start   time.Time
	End     time.Time
}

// Duration is the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Validator checks reservation forms against the clock.
type Validator struct {
	clock    Clock
	validate *validator.Validate
}

// NewValidator creates a Validator. A nil clock means the system clock.
func NewValidator(clock Clock) *Validator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Validator{clock: clock, validate: validation.New()}
}

// Validate checks f and returns the normalized window. Malformed fields are
// reported together; the temporal rules then run in order and stop at the
// first failure. Errors are validation.FieldErrors.
func (v *Validator) Validate(f Form) (Window, error) {
	if err := v.checkFields(f); err != nil {
		return Window{}, err
	}
	return v.window(f)
}

// ValidateUpdate checks an update form the same way as Validate, plus the
// reservation identifier.
func (v *Validator) ValidateUpdate(f UpdateForm) (Window, error) {
	var errs validation.FieldErrors
	if err := v.validate.Var(f.ID, "required,uuid"); err != nil {
		errs = append(errs, validation.FieldError{Field: FieldID, Message: msgInvalidID})
	}
	if err := v.checkFields(f.Form); err != nil {
		var fe validation.FieldErrors
		if !errors.As(err, &fe) {
			return Window{}, err
		}
		errs = append(errs, fe...)
	}
	if len(errs) > 0 {
		return Window{}, errs
	}
	return v.window(f.Form)
}

func (v *Validator) checkFields(f Form) error {
	var errs validation.FieldErrors
	if err := validation.Struct(v.validate, f, fieldMessages); err != nil {
		var fe validation.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		errs = append(errs, fe...)
	}

	switch {
	case f.Date.IsZero():
		errs = append(errs, validation.FieldError{Field: FieldDate, Message: msgInvalidDate})
	case day(f.Date).Before(day(v.clock.Now().In(f.Date.Location()))):
		errs = append(errs, validation.FieldError{Field: FieldDate, Message: msgPastDate})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) window(f Form) (Window, error) {
	start, err := combine(f.Date, f.StartTime)
	if err != nil {
		return Window{}, validation.FieldErrors{{Field: FieldStartTime, Message: msgInvalidTime}}
	}
	end, err := combine(f.Date, f.EndTime)
	if err != nil {
		return Window{}, validation.FieldErrors{{Field: FieldEndTime, Message: msgInvalidTime}}
	}

	if !start.After(v.clock.Now()) {
		return Window{}, validation.FieldErrors{{Field: FieldStartTime, Message: msgStartInPast}}
	}
	if !end.After(start) {
		return Window{}, validation.FieldErrors{{Field: FieldEndTime, Message: msgEndBeforeStart}}
	}

	return Window{SpaceID: f.SpaceID, Start: start, End: end}, nil
}

// FormFromReservation pre-fills an update form from an existing reservation,
// expressed in loc (nil means the reservation's own location).
func FormFromReservation(r models.Reservation, loc *time.Location) UpdateForm {
	start, end := r.StartDateTime.Time, r.EndDateTime.Time
	if loc != nil {
		start, end = start.In(loc), end.In(loc)
	}
	return UpdateForm{
		ID: r.ID,
		Form: Form{
			SpaceID:   r.AcademicSpace.ID,
			Date:      day(start),
			StartTime: start.Format(timeLayout),
			EndTime:   end.Format(timeLayout),
		},
	}
}

const timeLayout = "15:04"

func combine(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time of day %q: %w", hhmm, err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
