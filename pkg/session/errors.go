package session

import (
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/events"
)

var (
	// ErrNoWatch is returned by operations that need an open watch.
	ErrNoWatch = errors.New("session: no watch is open")
	// ErrNoSelection is returned by bulk operations on an empty selection.
	ErrNoSelection = errors.New("session: nothing selected")
	// ErrNoTarget is returned by MoveSelected without a target watch.
	ErrNoTarget = errors.New("session: no target watch")
	// ErrNoPrompt is returned by a selective analysis without a prompt.
	ErrNoPrompt = errors.New("session: no analysis prompt")
	// ErrTooFewToCompare is returned by CompareSelected with fewer than
	// MinCompare ads selected.
	ErrTooFewToCompare = errors.New("session: not enough ads to compare")
)

// ConnectionError is shown for failures that never reached the server.
const ConnectionError = "Connection error."

// Describe turns err into the message shown to the user. Server messages are
// passed through verbatim; everything else falls back to fallback.
func Describe(err error, fallback string) string {
	var apiErr *api.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	case api.IsTransport(err):
		return ConnectionError
	default:
		return fallback
	}
}

// fail flashes and logs err, then returns it for the caller's exit status.
func (s *ClientSession) fail(err error, fallback string, attrs ...any) error {
	msg := Describe(err, fallback)
	s.flash(events.LevelError, msg)
	s.log.Error(fallback, append(attrs, "err", err)...)
	return err
}
