package tracker

import "errors"

// Errors returned by the trackers. Callers match them with errors.Is; the wrapped
// message carries the entity id.
var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrDuplicateOpenSession = errors.New("duplicate open session")
	ErrNoOpenSession        = errors.New("no open session")
)

// Code returns the stable name of a tracker error, or "" for other errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateOpenSession):
		return "DuplicateOpenSession"
	case errors.Is(err, ErrNoOpenSession):
		return "NoOpenSession"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	default:
		return ""
	}
}
