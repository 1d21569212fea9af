package validation

import (
	"regexp"
	"strings"
	"time"
)

// Mode selects how absent fields are treated.
type Mode int

const (
	// Strict requires every field; used for creation.
	Strict Mode = iota
	// Partial checks only the fields actually supplied; used for updates.
	Partial
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`\d`)
)

// dateLayouts are the accepted date/time input formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a date/time string in one of the accepted layouts.
func ParseDate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// UserForm is an untrusted user payload. Nil fields were absent from the
// request body.
type UserForm struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Password  *string
}

// Validate checks the form and returns every violation in field order.
// An empty result means the form may proceed.
func (f UserForm) Validate(mode Mode) []string {
	var errs []string

	errs = checkText(errs, "firstname", f.Firstname, mode, func(v string) []string {
		if digitPattern.MatchString(v) {
			return []string{"firstname cannot contain numbers"}
		}
		return nil
	})
	errs = checkText(errs, "lastname", f.Lastname, mode, nil)
	errs = checkText(errs, "email", f.Email, mode, func(v string) []string {
		if !emailPattern.MatchString(v) {
			return []string{"email must be a valid email address"}
		}
		return nil
	})
	errs = checkText(errs, "password", f.Password, mode, func(v string) []string {
		if len(v) < 8 {
			return []string{"password must be at least 8 characters long"}
		}
		return nil
	})

	return errs
}

// EventForm is an untrusted event payload. Dates stay raw strings until
// they pass validation.
type EventForm struct {
	Title       *string
	Description *string
	StartDate   *string
	EndDate     *string
	Location    *string
	UserID      *int64
}

// Validate checks the form and returns every violation in field order. The
// past-date rule applies in Strict mode only; the end-after-start rule
// applies whenever both dates are supplied and parseable.
func (f EventForm) Validate(mode Mode, now time.Time) []string {
	var errs []string

	errs = checkText(errs, "title", f.Title, mode, func(v string) []string {
		if len(strings.TrimSpace(v)) < 3 {
			return []string{"title must be at least 3 characters long"}
		}
		return nil
	})

	var start time.Time
	var startOK bool

	errs = checkText(errs, "start_date", f.StartDate, mode, func(v string) []string {
		t, err := ParseDate(strings.TrimSpace(v))
		if err != nil {
			return []string{"start_date must be a valid date"}
		}
		start, startOK = t, true
		if mode == Strict && t.Before(now) {
			return []string{"start_date cannot be in the past"}
		}
		return nil
	})
	errs = checkText(errs, "end_date", f.EndDate, mode, func(v string) []string {
		t, err := ParseDate(strings.TrimSpace(v))
		if err != nil {
			return []string{"end_date must be a valid date"}
		}
		if startOK && !t.After(start) {
			return []string{"end_date must be after start_date"}
		}
		return nil
	})
	errs = checkText(errs, "location", f.Location, mode, func(v string) []string {
		if len(strings.TrimSpace(v)) < 3 {
			return []string{"location must be at least 3 characters long"}
		}
		return nil
	})

	switch {
	case f.UserID == nil:
		if mode == Strict {
			errs = append(errs, "user_id is required")
		}
	case *f.UserID == 0:
		if mode == Strict {
			errs = append(errs, "user_id is required")
		} else {
			errs = append(errs, "user_id cannot be empty")
		}
	}

	return errs
}

// checkText applies the shared presence/blank rules for a string field and
// then the field-specific rules, appending any violations.
func checkText(errs []string, field string, value *string, mode Mode, rules func(string) []string) []string {
	if value == nil {
		if mode == Strict {
			return append(errs, field+" is required")
		}
		return errs
	}
	if strings.TrimSpace(*value) == "" {
		if mode == Strict {
			return append(errs, field+" is required")
		}
		return append(errs, field+" cannot be empty")
	}
	if rules != nil {
		errs = append(errs, rules(*value)...)
	}
	return errs
}
