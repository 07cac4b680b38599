package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chonchon/internal/modules/oracle/domain"
	oracleout "chonchon/internal/modules/oracle/port/out"
)

type OracleService struct {
	completer oracleout.Completer
	persona   domain.Persona
	timeout   time.Duration
	log       *slog.Logger
}

func NewOracleService(completer oracleout.Completer, persona domain.Persona, timeout time.Duration, log *slog.Logger) *OracleService {
	if log == nil {
		log = slog.Default()
	}
	return &OracleService{completer: completer, persona: persona, timeout: timeout, log: log}
}

func (s *OracleService) Persona() domain.Persona {
	return s.persona
}

// Answer returns the model's reply, or the persona fallback with ok=false.
func (s *OracleService) Answer(ctx context.Context, question string) (answer string, ok bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return s.persona.Fallback(), false
	}
	text, err := s.complete(ctx, question)
	if err != nil {
		s.log.WarnContext(ctx, "answer generation failed", "error", err)
		return s.persona.Fallback(), false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.log.WarnContext(ctx, "answer generation returned empty text")
		return s.persona.Fallback(), false
	}
	return text, true
}

func (s *OracleService) complete(ctx context.Context, question string) (text string, err error) {
	if s.completer == nil {
		return "", fmt.Errorf("answer backend is not configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("answer backend panicked: %v", r)
		}
	}()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	text, err = s.completer.Complete(ctx, s.persona.SystemPrompt(), question)
	if err != nil {
		return "", err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	s.log.DebugContext(ctx, "answer generated", "elapsed", time.Since(start))
	return text, nil
}
