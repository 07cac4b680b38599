package usecase

import (
	"context"

	"chonchon/internal/modules/oracle/dto"
	oraclein "chonchon/internal/modules/oracle/port/in"
	"chonchon/internal/modules/oracle/service"
)

type Interactor struct {
	svc *service.OracleService
}

func NewInteractor(svc *service.OracleService) oraclein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Ask(ctx context.Context, input dto.AskInput) dto.AskOutput {
	text, ok := i.svc.Answer(ctx, input.Question)
	return dto.AskOutput{
		Persona:  i.svc.Persona().Name,
		Text:     text,
		Fallback: !ok,
	}
}
