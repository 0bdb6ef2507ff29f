package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the API rejects the session credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSchemaMismatch is returned when a response body does not match the
	// expected shape. It is fatal for the view that issued the request.
	ErrSchemaMismatch = errors.New("response does not match expected schema")

	// ErrForbiddenAction is returned when the local ability projection denies
	// an action before any request is made.
	ErrForbiddenAction = errors.New("action not permitted")
)

// Body is the structured error payload of the API.
type Body struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    Code
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d %s", e.Status, e.Code)
}

// Is lets errors.Is match APIErrors by code, e.g.
// errors.Is(err, &APIError{Code: CodeSpaceNotFound}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Status == 0 || t.Status == e.Status)
}

// FromResponse builds an APIError from a status code and raw body. Bodies that
// are not JSON or carry an unknown code collapse to CodeDomainError.
func FromResponse(status int, raw []byte) *APIError {
	if status == 0 {
		status = http.StatusInternalServerError
	}

	var body Body
	if len(raw) > 0 {
		// A body that does not decode leaves the code empty, which parses
		// to CodeDomainError.
		if err := json.Unmarshal(raw, &body); err != nil {
			body = Body{}
		}
	}

	return &APIError{
		Status:  status,
		Code:    ParseCode(body.Code),
		Message: body.Message,
	}
}

// CodeOf extracts the domain code from err. Errors that are not APIErrors
// report CodeDomainError.
func CodeOf(err error) Code {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeDomainError
}

// UserMessage returns the generic user-facing message for any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return Message(CodeOf(err))
}
