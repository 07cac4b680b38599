package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrSessionClosed      = errors.New("session is closed")
	ErrAlreadyClosed      = errors.New("session already closed")
	ErrSessionOpen        = errors.New("session is still open")
	ErrEmptyContent       = errors.New("note content is empty")
	ErrNoOpenSession      = errors.New("no open session")
	ErrSessionAlreadyOpen = errors.New("open session already exists")
	ErrMissingConfig      = errors.New("missing required configuration")
)
