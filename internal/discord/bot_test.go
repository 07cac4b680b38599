package discord

import (
	"context"
	"testing"

	oracledto "chonchon/internal/modules/oracle/dto"
	"chonchon/internal/platform/logger"
)

func TestInteractionsFollowTheRunContext(t *testing.T) {
	t.Parallel()
	b, err := NewBot(BotOptions{Token: "test-token"}, NewRouter(nil, nil), logger.Discard())
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	if err := b.runContext().Err(); err != nil {
		t.Fatalf("context before Run must be live, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.base.Store(&ctx)
	cancel()
	if err := b.runContext().Err(); err == nil {
		t.Fatalf("cancelling the run context must cancel interaction contexts")
	}
}

func TestAskCarriesCancellationToTheOracle(t *testing.T) {
	t.Parallel()
	oracle := &ctxOracle{}
	router := NewRouter(nil, oracle)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	router.Handle(ctx, Invocation{Name: CommandAsk, Options: map[string]string{OptionQuestion: "Is it dark?"}})
	if oracle.err == nil {
		t.Fatalf("oracle should see the cancelled context")
	}
}

type ctxOracle struct {
	err error
}

func (o *ctxOracle) Ask(ctx context.Context, question string) oracledto.AskOutput {
	o.err = ctx.Err()
	return oracledto.AskOutput{Text: question}
}
