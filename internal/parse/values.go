// Package parse turns raw path, query and form values into typed request values.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar-day format used in requests and session rows.
const DateLayout = "2006-01-02"

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = errors.New("invalid value")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ID parses a positive row id.
func ID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive integer", ErrInvalid, raw)
	}
	return id, nil
}

// Date validates a YYYY-MM-DD calendar day and returns it trimmed. Impossible days
// such as 2024-02-30 are rejected.
func Date(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !dateRe.MatchString(v) {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalid, raw)
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return "", fmt.Errorf("%w: date %q is not a calendar day", ErrInvalid, raw)
	}
	return v, nil
}

// Range validates an optional from/to pair. Blank ends stay blank; a range whose
// end precedes its start is rejected.
func Range(from, to string) (string, string, error) {
	var err error
	if strings.TrimSpace(from) != "" {
		if from, err = Date(from); err != nil {
			return "", "", err
		}
	} else {
		from = ""
	}
	if strings.TrimSpace(to) != "" {
		if to, err = Date(to); err != nil {
			return "", "", err
		}
	} else {
		to = ""
	}
	if from != "" && to != "" && to < from {
		return "", "", fmt.Errorf("%w: range end %s precedes start %s", ErrInvalid, to, from)
	}
	return from, to, nil
}

// RegisterValidators adds the "yyyymmdd" tag to v. Empty values pass so the tag can
// be combined with omitempty or required.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("yyyymmdd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := Date(s)
		return err == nil
	})
}
