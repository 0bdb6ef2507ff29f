// Package validation wraps go-playground/validator with the dashboard's
// custom tags and converts its errors into field-attributed messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

var tagMessages = map[string]string{
	"required": "Campo obrigatório",
	"email":    "Informe um e-mail válido",
	"uuid":     "Identificador inválido",
	"min":      "Valor muito curto",
	"max":      "Valor muito longo",
	"len":      "Tamanho inválido",
	"oneof":    "Valor inválido",
	"gt":       "Valor deve ser maior que zero",
	"hhmm":     "Informe um horário valido",
}

// New returns a validator that reports JSON field names and knows the
// "hhmm" tag (24h HH:MM).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsTimeOfDay(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register hhmm: %v", err))
	}
	return v
}

// IsTimeOfDay reports whether s is a 24h HH:MM time.
func IsTimeOfDay(s string) bool {
	return timeOfDay.MatchString(s)
}

// FieldError is a validation failure attributed to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors collects every failing field of one input.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Get returns the message attributed to field, if any.
func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

// Fields converts a validator error into FieldErrors. Messages keyed by field
// name take precedence over the per-tag defaults; the first failing tag of a
// field wins. Errors that are not validation errors are returned unchanged.
func Fields(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(FieldErrors, 0, len(ve))
	seen := make(map[string]bool, len(ve))
	for _, fieldErr := range ve {
		name := fieldErr.Field()
		if seen[name] {
			continue
		}
		seen[name] = true

		msg, ok := messages[name]
		if !ok {
			msg, ok = tagMessages[fieldErr.Tag()]
		}
		if !ok {
			msg = "Valor inválido"
		}
		out = append(out, FieldError{Field: name, Message: msg})
	}
	return out
}

// Struct validates s with v and returns FieldErrors on failure.
func Struct(v *validator.Validate, s any, messages map[string]string) error {
	return Fields(v.Struct(s), messages)
}
