package in

import (
	"context"

	oracledto "chonchon/internal/modules/oracle/dto"
	oraclein "chonchon/internal/modules/oracle/port/in"
)

type CLIHandler struct {
	usecase oraclein.Usecase
}

func NewCLIHandler(usecase oraclein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Ask(ctx context.Context, question string) oracledto.AskOutput {
	return h.usecase.Ask(ctx, oracledto.AskInput{Question: question})
}
