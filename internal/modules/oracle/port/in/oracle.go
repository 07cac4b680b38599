package in

import (
	"context"

	"chonchon/internal/modules/oracle/dto"
)

// Usecase answers rules questions. It never fails: errors become the persona's fallback text.
type Usecase interface {
	Ask(ctx context.Context, input dto.AskInput) dto.AskOutput
}
