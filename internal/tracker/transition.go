package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Transition is a requested session edge.
type Transition string

const (
	Enter Transition = "enter"
	Exit  Transition = "exit"
)

// DateLayout is the calendar-day format stored in session rows.
const DateLayout = "2006-01-02"

var transitionAliases = map[string]Transition{
	"entrada": Enter,
	"enter":   Enter,
	"salida":  Exit,
	"exit":    Exit,
}

// ParseTransition maps a request value ("entrada"/"salida" or "enter"/"exit") to a
// Transition. With foldCase the value is matched case-insensitively.
func ParseTransition(raw string, foldCase bool) (Transition, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", fmt.Errorf("%w: type is required (entrada or salida)", ErrValidation)
	}
	if foldCase {
		v = strings.ToLower(v)
	}
	t, ok := transitionAliases[v]
	if !ok {
		return "", fmt.Errorf("%w: %q must be 'entrada' or 'salida'", ErrInvalidTransition, raw)
	}
	return t, nil
}

// Clock supplies the current instant and the business timezone that decides which
// calendar day a mark belongs to.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// today returns the instant and the calendar day in the business timezone.
func (c Clock) today() (time.Time, string) {
	now := c.now()
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return local, local.Format(DateLayout)
}
