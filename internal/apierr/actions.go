package apierr

import "errors"

// ActionMessages maps errors of one dashboard action to toast messages: a
// per-code override table with a fallback for everything else.
type ActionMessages struct {
	Fallback string
	ByCode   map[Code]string
}

// For picks the message for err.
func (a ActionMessages) For(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrForbiddenAction) {
		return "Você não tem permissão para realizar esta ação"
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Sessão expirada, faça login novamente"
	}
	if msg, ok := a.ByCode[CodeOf(err)]; ok && CodeOf(err) != CodeDomainError {
		return msg
	}
	if a.Fallback != "" {
		return a.Fallback
	}
	return UserMessage(err)
}

var (
	CreateReservation = ActionMessages{
		Fallback: "Erro ao criar reserva",
		ByCode: map[Code]string{
			CodeReservationIntervalOverlap: Message(CodeReservationIntervalOverlap),
			CodeUserHasPendingReservations: Message(CodeUserHasPendingReservations),
		},
	}
	UpdateReservation = ActionMessages{
		Fallback: "Erro ao alterar reserva",
		ByCode: map[Code]string{
			CodeSpaceNotAvailable:          "Espaço não disponível",
			CodeReservationIntervalOverlap: "Sobreposição de horários",
			CodeSpaceNotFound:              "Espaço não encontrado",
		},
	}
	CancelReservation  = ActionMessages{Fallback: "Erro ao cancelar a reserva"}
	ConfirmReservation = ActionMessages{Fallback: "Erro ao confirmar reserva"}
	CreateSpace        = ActionMessages{
		Fallback: "Erro ao criar espaço acadêmico",
		ByCode:   map[Code]string{CodeSpaceAlreadyExists: Message(CodeSpaceAlreadyExists)},
	}
	UpdateSpace = ActionMessages{
		Fallback: "Erro ao editar o espaço acadêmico",
		ByCode:   map[Code]string{CodeSpaceAlreadyExists: Message(CodeSpaceAlreadyExists)},
	}
	ChangeSpaceStatus = ActionMessages{Fallback: "Erro ao alterar o status do espaço acadêmico"}
	CreateUser        = ActionMessages{
		Fallback: "Erro ao criar usuário",
		ByCode:   map[Code]string{CodeDuplicateFound: "Usuário já cadastrado"},
	}
	UpdateUser       = ActionMessages{Fallback: "Erro ao editar usuário"}
	DeleteUser       = ActionMessages{Fallback: "Erro ao excluir usuário"}
	CreateSchool     = ActionMessages{Fallback: "Erro ao criar unidade escolar"}
	DeleteSchoolUnit = ActionMessages{Fallback: "Erro ao excluir a unidade escolar"}
	SignIn           = ActionMessages{Fallback: "E-mail ou senha inválidos"}
)
