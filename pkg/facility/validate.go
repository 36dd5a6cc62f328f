package facility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidFacility wraps every structural or referential problem found in a description.
	ErrInvalidFacility = errors.New("invalid facility description")

	validate = validator.New()
)

// Validate checks struct constraints first and then the cross references that
// tags cannot express. All referential problems are reported together.
func Validate(d *Description) error {
	if d == nil {
		return fmt.Errorf("%w: description is nil", ErrInvalidFacility)
	}

	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFacility, formatValidationError(err))
	}

	var problems []string
	floorOf := make(map[string]string)

	for _, key := range d.FloorKeys() {
		floor := d.Floors[key]
		for _, loc := range floor.Locations {
			if prev, dup := floorOf[loc.ID]; dup {
				problems = append(problems, fmt.Sprintf("location %q declared on both %q and %q", loc.ID, prev, key))
				continue
			}
			floorOf[loc.ID] = key
		}
	}

	for _, key := range d.FloorKeys() {
		for i, corridor := range d.Floors[key].Corridors {
			for _, id := range corridor {
				owner, ok := floorOf[id]
				switch {
				case !ok:
					problems = append(problems, fmt.Sprintf("floor %q corridor %d references unknown location %q", key, i, id))
				case owner != key:
					problems = append(problems, fmt.Sprintf("floor %q corridor %d references %q which belongs to floor %q", key, i, id, owner))
				}
			}
		}
	}

	locationType := func(id string) string {
		for _, loc := range d.Floors[floorOf[id]].Locations {
			if loc.ID == id {
				return loc.Type
			}
		}
		return ""
	}

	for i, c := range d.Connectors {
		_, fromOK := floorOf[c.From]
		_, toOK := floorOf[c.To]
		if !fromOK {
			problems = append(problems, fmt.Sprintf("connector %d references unknown location %q", i, c.From))
		}
		if !toOK {
			problems = append(problems, fmt.Sprintf("connector %d references unknown location %q", i, c.To))
		}
		if fromOK && toOK && locationType(c.From) != TypeNavigation && locationType(c.To) != TypeNavigation {
			problems = append(problems, fmt.Sprintf("connector %d (%s-%s) has no navigation endpoint", i, c.From, c.To))
		}
	}

	for _, f := range d.Faculty {
		for _, ref := range f.Rooms() {
			if _, ok := d.Floors[ref.Floor]; !ok {
				problems = append(problems, fmt.Sprintf("faculty %q references unknown floor %q", f.Name, ref.Floor))
				continue
			}
			owner, ok := floorOf[ref.Room]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("faculty %q references unknown room %q", f.Name, ref.Room))
			case owner != ref.Floor:
				problems = append(problems, fmt.Sprintf("faculty %q room %q is on floor %q, not %q", f.Name, ref.Room, owner, ref.Floor))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFacility, strings.Join(problems, "; "))
	}
	return nil
}

// formatValidationError converts validator errors to a readable message
func formatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", e.Namespace()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: must have at least %s entries", e.Namespace(), e.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s", e.Namespace(), e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", e.Namespace(), e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
