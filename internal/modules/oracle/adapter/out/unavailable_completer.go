package out

import (
	"context"
	"fmt"
)

// UnavailableCompleter stands in when no backend credential is configured, so store-only
// commands can run without one.
type UnavailableCompleter struct {
	Reason string
}

func (u UnavailableCompleter) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("answer backend unavailable: %s", u.Reason)
}
