package apierr

// Code is a domain error code reported by the remote API.
type Code string

const (
	CodeDomainError                = Code("DOMAIN_ERROR")
	CodeSpaceAlreadyExists         = Code("SPACE_ALREADY_EXISTS")
	CodeSpaceNotFound              = Code("SPACE_NOT_FOUND")
	CodeDuplicateFound             = Code("DUPLICATE_FOUND")
	CodeReservationIntervalOverlap = Code("RESERVATION_INTERVAL_OVERLAP")
	CodeUserHasPendingReservations = Code("USER_HAS_PENDING_RESERVATIONS")
	CodeSpaceNotAvailable          = Code("SPACE_NOT_AVAILABLE")
)

var messages = map[Code]string{
	CodeDomainError:                "Não foi possível concluir a operação",
	CodeSpaceAlreadyExists:         "Espaço acadêmico já existe",
	CodeSpaceNotFound:              "Espaço acadêmico não encontrado",
	CodeDuplicateFound:             "Registro duplicado",
	CodeReservationIntervalOverlap: "Já existe uma reserva nesse intervalo",
	CodeUserHasPendingReservations: "Você possui reserva pendente",
	CodeSpaceNotAvailable:          "Espaço acadêmico não disponível",
}

// ParseCode maps a raw code onto the closed set, falling back to
// CodeDomainError for anything unrecognized.
func ParseCode(raw string) Code {
	code := Code(raw)
	if _, ok := messages[code]; ok {
		return code
	}
	return CodeDomainError
}

// Message returns the user-facing message for a code.
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[CodeDomainError]
}

// Codes lists every recognized code.
func Codes() []Code {
	return []Code{
		CodeDomainError,
		CodeSpaceAlreadyExists,
		CodeSpaceNotFound,
		CodeDuplicateFound,
		CodeReservationIntervalOverlap,
		CodeUserHasPendingReservations,
		CodeSpaceNotAvailable,
	}
}
