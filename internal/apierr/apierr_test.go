package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCode(t *testing.T) {
	for _, code := range Codes() {
		assert.Equal(t, code, ParseCode(string(code)))
	}
	assert.Equal(t, CodeDomainError, ParseCode("SOMETHING_NEW"))
	assert.Equal(t, CodeDomainError, ParseCode(""))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Já existe uma reserva nesse intervalo", Message(CodeReservationIntervalOverlap))
	assert.Equal(t, Message(CodeDomainError), Message(Code("UNKNOWN")))

	for _, code := range Codes() {
		assert.NotEmpty(t, Message(code), "missing message for %s", code)
	}
}

func TestFromResponse(t *testing.T) {
	t.Run("Overlap", func(t *testing.T) {
		err := FromResponse(http.StatusConflict, []byte(`{"message":"overlap","code":"RESERVATION_INTERVAL_OVERLAP"}`))
		assert.Equal(t, http.StatusConflict, err.Status)
		assert.Equal(t, CodeReservationIntervalOverlap, err.Code)
		assert.Equal(t, "overlap", err.Message)
		assert.Equal(t, "Já existe uma reserva nesse intervalo", UserMessage(err))
	})

	t.Run("UnknownCode", func(t *testing.T) {
		err := FromResponse(http.StatusBadRequest, []byte(`{"message":"x","code":"WHATEVER"}`))
		assert.Equal(t, CodeDomainError, err.Code)
		assert.Equal(t, Message(CodeDomainError), UserMessage(err))
	})

	t.Run("NotJSON", func(t *testing.T) {
		err := FromResponse(0, []byte("<html>bad gateway</html>"))
		assert.Equal(t, http.StatusInternalServerError, err.Status)
		assert.Equal(t, CodeDomainError, err.Code)
		assert.Empty(t, err.Message)
	})

	t.Run("PartiallyDecoded", func(t *testing.T) {
		err := FromResponse(http.StatusConflict, []byte(`{"message":"overlap","code":42}`))
		assert.Equal(t, CodeDomainError, err.Code)
		assert.Empty(t, err.Message)
	})
}

func TestAPIError_Is(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", &APIError{Status: 409, Code: CodeReservationIntervalOverlap})

	assert.True(t, errors.Is(err, &APIError{Code: CodeReservationIntervalOverlap}))
	assert.True(t, errors.Is(err, &APIError{Status: 409, Code: CodeReservationIntervalOverlap}))
	assert.False(t, errors.Is(err, &APIError{Status: 400, Code: CodeReservationIntervalOverlap}))
	assert.False(t, errors.Is(err, &APIError{Code: CodeSpaceNotFound}))
	assert.Equal(t, CodeReservationIntervalOverlap, CodeOf(err))
	assert.Equal(t, CodeDomainError, CodeOf(errors.New("network down")))
}

func TestActionMessages(t *testing.T) {
	overlap := &APIError{Status: 409, Code: CodeReservationIntervalOverlap}
	pending := &APIError{Status: 409, Code: CodeUserHasPendingReservations}
	notFound := &APIError{Status: 404, Code: CodeSpaceNotFound}

	assert.Equal(t, "Já existe uma reserva nesse intervalo", CreateReservation.For(overlap))
	assert.Equal(t, "Você possui reserva pendente", CreateReservation.For(pending))
	assert.Equal(t, "Erro ao criar reserva", CreateReservation.For(notFound))
	assert.Equal(t, "Erro ao criar reserva", CreateReservation.For(errors.New("timeout")))

	assert.Equal(t, "Sobreposição de horários", UpdateReservation.For(overlap))
	assert.Equal(t, "Espaço não encontrado", UpdateReservation.For(notFound))

	assert.Equal(t, "Espaço acadêmico já existe", CreateSpace.For(&APIError{Code: CodeSpaceAlreadyExists}))

	assert.Contains(t, CancelReservation.For(ErrForbiddenAction), "permissão")
	assert.Contains(t, CancelReservation.For(fmt.Errorf("x: %w", ErrUnauthorized)), "login")
	assert.Empty(t, CancelReservation.For(nil))

	generic := ActionMessages{}
	assert.Equal(t, Message(CodeSpaceNotFound), generic.For(notFound))
}
