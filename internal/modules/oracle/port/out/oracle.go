package out

import "context"

// Completer sends one system prompt and one user question to a language model.
type Completer interface {
	Complete(ctx context.Context, system, question string) (string, error)
}
