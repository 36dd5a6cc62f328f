package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// ErrInvalidRequest wraps every request validation failure
	ErrInvalidRequest = errors.New("invalid request")

	// Validation constants
	MaxQueryLength    = 200
	MaxQuestionLength = 500
)

func init() {
	validate = validator.New()

	// Report JSON field names so errors match what clients sent
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return IsWeekday(fl.Field().String())
	})
}

// NavigateRequest asks for a route between two free-text locations
type NavigateRequest struct {
	Start       string `json:"start" validate:"required,max=200"`
	Destination string `json:"destination" validate:"required,max=200"`
}

// FacultyRequest asks for a route to a faculty member, optionally on a given day
type FacultyRequest struct {
	Start   string `json:"start" validate:"required,max=200"`
	Faculty string `json:"faculty" validate:"required,max=200"`
	Day     string `json:"day,omitempty" validate:"omitempty,weekday"`
}

// SearchRequest is a free-text search across all indices
type SearchRequest struct {
	Query string `json:"q" validate:"required,max=200"`
}

// RestrictionRequest marks a location as restricted or clears it
type RestrictionRequest struct {
	Location   string `json:"location" validate:"required,max=200"`
	Restricted *bool  `json:"restricted" validate:"required"`
}

// AskRequest is a natural-language question for the assistant
type AskRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	Start string `json:"start,omitempty" validate:"omitempty,max=200"`
}

// TokenRequest exchanges operator credentials for a bearer token
type TokenRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// ValidateRequest checks a request struct against its tags
func ValidateRequest(req any) error {
	if req == nil || (reflect.ValueOf(req).Kind() == reflect.Ptr && reflect.ValueOf(req).IsNil()) {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, formatValidationError(err))
	}
	return nil
}

// ValidateQuery validates a free-text query parameter
func ValidateQuery(field, q string) error {
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("%w: %s: field is required", ErrInvalidRequest, field)
	}
	if len(q) > MaxQueryLength {
		return fmt.Errorf("%w: %s: must not exceed %d", ErrInvalidRequest, field, MaxQueryLength)
	}
	return nil
}

// IsWeekday reports whether s names a day of the week the way navigation.ParseWeekday reads it
func IsWeekday(s string) bool {
	_, err := navigation.ParseWeekday(s)
	return err == nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "weekday":
			return fmt.Errorf("%s: %q is not a day of the week", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
