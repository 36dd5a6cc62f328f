package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// FieldError is one failed check on a configuration field.
type FieldError struct {
	Section string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Section, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ConfigErrors is every FieldError found in one pass.
type ConfigErrors struct {
	Section string
	Fields  []*FieldError
}

func (e *ConfigErrors) Error() string {
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = "  " + f.Error()
	}
	return fmt.Sprintf("%s has %d errors:\n%s", e.Section, len(e.Fields), strings.Join(lines, "\n"))
}

// Unwrap exposes each field error to errors.Is and errors.As.
func (e *ConfigErrors) Unwrap() []error {
	out := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f
	}
	return out
}

// ConfigValidator accumulates field checks so a misconfigured deployment
// sees all of its problems in one run.
type ConfigValidator struct {
	section string
	fields  []*FieldError
}

// NewConfigValidator starts a validator whose messages are prefixed by section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) fail(field string, format string, args ...any) *ConfigValidator {
	cv.fields = append(cv.fields, &FieldError{Section: cv.section, Field: field, Err: fmt.Errorf(format, args...)})
	return cv
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if strings.TrimSpace(value) == "" {
		return cv.fail(field, "is required")
	}
	return cv
}

// RequiredDuration rejects a zero or negative duration.
func (cv *ConfigValidator) RequiredDuration(field string, value time.Duration) *ConfigValidator {
	if value <= 0 {
		return cv.fail(field, "must be a positive duration, got %v", value)
	}
	return cv
}

func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if value < lo || value > hi {
		return cv.fail(field, "%d is outside [%d, %d]", value, lo, hi)
	}
	return cv
}

func (cv *ConfigValidator) MinDuration(field string, value, lo time.Duration) *ConfigValidator {
	if value < lo {
		return cv.fail(field, "%v is below the minimum of %v", value, lo)
	}
	return cv
}

func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		return cv.fail(field, "%d must be positive", value)
	}
	return cv
}

// OneOf rejects any value not listed in allowed.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if !slices.Contains(allowed, value) {
		return cv.fail(field, "%q is not one of %s", value, strings.Join(allowed, ", "))
	}
	return cv
}

// Custom records whatever error fn returns, wrapped so errors.Is still sees it.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.fields = append(cv.fields, &FieldError{Section: cv.section, Field: field, Err: err})
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool { return len(cv.fields) > 0 }

// Errors returns the failures recorded so far, in check order.
func (cv *ConfigValidator) Errors() []error {
	out := make([]error, len(cv.fields))
	for i, f := range cv.fields {
		out[i] = f
	}
	return out
}

// Validate returns nil, the lone *FieldError, or a *ConfigErrors.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.fields) {
	case 0:
		return nil
	case 1:
		return cv.fields[0]
	default:
		return &ConfigErrors{Section: cv.section, Fields: slices.Clone(cv.fields)}
	}
}

// FieldNames lists the failing fields of err, for callers that report them.
func FieldNames(err error) []string {
	var many *ConfigErrors
	if errors.As(err, &many) {
		names := make([]string, len(many.Fields))
		for i, f := range many.Fields {
			names[i] = f.Field
		}
		return names
	}
	var one *FieldError
	if errors.As(err, &one) {
		return []string{one.Field}
	}
	return nil
}
