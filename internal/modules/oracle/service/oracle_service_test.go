package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chonchon/internal/modules/oracle/domain"
	"chonchon/internal/modules/oracle/service"
	"chonchon/internal/platform/logger"
)

type fakeCompleter struct {
	answer   string
	err      error
	block    bool
	panicMsg string
	system   string
	question string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, question string) (string, error) {
	f.system, f.question = system, question
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

func newService(c *fakeCompleter, timeout time.Duration) *service.OracleService {
	return service.NewOracleService(c, domain.Persona{Name: "Chonchón"}, timeout, logger.Discard())
}

func TestAnswerPassesPersonaPromptAndTrims(t *testing.T) {
	t.Parallel()
	c := &fakeCompleter{answer: "  Grappling uses Athletics.\n"}
	answer, ok := newService(c, time.Second).Answer(context.Background(), " How does grappling work? ")
	if !ok || answer != "Grappling uses Athletics." {
		t.Fatalf("unexpected answer %q ok=%v", answer, ok)
	}
	if !strings.Contains(c.system, "Chonchón") || !strings.Contains(c.system, "Dungeons & Dragons") {
		t.Fatalf("system prompt missing persona: %q", c.system)
	}
	if c.question != "How does grappling work?" {
		t.Fatalf("question not trimmed: %q", c.question)
	}
}

func TestAnswerFallsBackInsteadOfFailing(t *testing.T) {
	t.Parallel()
	fallback := domain.Persona{Name: "Chonchón"}.Fallback()
	cases := map[string]*fakeCompleter{
		"backend error": {err: errors.New("rate limited")},
		"empty answer":  {answer: "   "},
		"timeout":       {block: true},
		"panic":         {panicMsg: "boom"},
	}
	for name, c := range cases {
		name, c := name, c
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			answer, ok := newService(c, 20*time.Millisecond).Answer(context.Background(), "Can I cast two spells?")
			if ok || answer != fallback {
				t.Fatalf("expected fallback, got %q ok=%v", answer, ok)
			}
		})
	}
}

func TestAnswerWithoutQuestionOrBackend(t *testing.T) {
	t.Parallel()
	c := &fakeCompleter{answer: "never"}
	if _, ok := newService(c, time.Second).Answer(context.Background(), "   "); ok {
		t.Fatalf("blank question must fall back")
	}
	if c.question != "" {
		t.Fatalf("backend must not be called for a blank question")
	}
	svc := service.NewOracleService(nil, domain.Persona{}, time.Second, logger.Discard())
	answer, ok := svc.Answer(context.Background(), "Anything?")
	if ok || !strings.HasPrefix(answer, "The oracle keeps silent") {
		t.Fatalf("expected default fallback, got %q", answer)
	}
}
