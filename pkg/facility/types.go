package facility

import "sort"

// Location type tags recognised in facility descriptions.
const (
	TypeRoom       = "room"
	TypeDepartment = "department"
	TypeNavigation = "navigation"
	TypeFacility   = "facility"
	TypeOffice     = "office"
	TypeClassroom  = "classroom"
	TypeLab        = "lab"
)

// Connector kinds for vertical links between floors.
const (
	KindStairs   = "stairs"
	KindElevator = "elevator"
)

// Description is the hand-authored facility document consumed once at startup.
type Description struct {
	Floors      map[string]*Floor      `json:"floors" yaml:"floors" validate:"required,min=1,dive,required"`
	Connectors  []Connector            `json:"connectors,omitempty" yaml:"connectors,omitempty" validate:"dive"`
	Faculty     []Faculty              `json:"faculty,omitempty" yaml:"faculty,omitempty" validate:"dive"`
	QuickAccess map[string]QuickAccess `json:"quickAccess,omitempty" yaml:"quickAccess,omitempty" validate:"dive"`
}

// Floor groups the locations of one storey with its same-floor corridors.
// Each corridor is an ordered chain; consecutive ids are adjacent.
type Floor struct {
	Name      string     `json:"name" yaml:"name" validate:"required"`
	Level     int        `json:"level" yaml:"level"`
	Locations []Location `json:"locations" yaml:"locations" validate:"required,min=1,dive"`
	Corridors [][]string `json:"corridors,omitempty" yaml:"corridors,omitempty" validate:"dive,min=2,dive,required"`
}

// Location is a single point of interest on a floor.
type Location struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Name        string    `json:"name" yaml:"name" validate:"required"`
	Type        string    `json:"type" yaml:"type" validate:"required"`
	FullName    string    `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Services    []Service `json:"services,omitempty" yaml:"services,omitempty" validate:"dive"`
}

// Service is something a department offers to visitors.
type Service struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Hours       string `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// Connector is a vertical link (stairs or elevator) between two locations.
type Connector struct {
	From   string `json:"from" yaml:"from" validate:"required"`
	To     string `json:"to" yaml:"to" validate:"required"`
	Weight int    `json:"weight" yaml:"weight" validate:"gt=0"`
	Kind   string `json:"kind" yaml:"kind" validate:"required,oneof=stairs elevator"`
}

// Faculty describes a staff member and where they can be found.
type Faculty struct {
	Name            string        `json:"name" yaml:"name" validate:"required"`
	Availability    string        `json:"availability,omitempty" yaml:"availability,omitempty"`
	Schedule        string        `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Role            string        `json:"role,omitempty" yaml:"role,omitempty"`
	PrimaryLocation *LocationRef  `json:"primaryLocation" yaml:"primaryLocation" validate:"required"`
	Locations       []LocationRef `json:"locations,omitempty" yaml:"locations,omitempty" validate:"dive"`
}

// LocationRef points at a room on a given floor key.
type LocationRef struct {
	Floor string `json:"floor" yaml:"floor" validate:"required"`
	Room  string `json:"room" yaml:"room" validate:"required"`
}

// QuickAccess is a named shortcut to a location, e.g. "printing".
type QuickAccess struct {
	Location string `json:"location" yaml:"location" validate:"required"`
	Floor    string `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// FloorKeys returns floor keys ordered by level, then key.
// Everything that iterates floors uses this order so results are deterministic.
func (d *Description) FloorKeys() []string {
	keys := make([]string, 0, len(d.Floors))
	for k := range d.Floors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := d.Floors[keys[i]].Level, d.Floors[keys[j]].Level
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Rooms returns every location reference of a faculty member, primary first.
func (f *Faculty) Rooms() []LocationRef {
	refs := make([]LocationRef, 0, 1+len(f.Locations))
	if f.PrimaryLocation != nil {
		refs = append(refs, *f.PrimaryLocation)
	}
	return append(refs, f.Locations...)
}

// QuickAccessNames returns the shortcut names in sorted order.
func (d *Description) QuickAccessNames() []string {
	names := make([]string, 0, len(d.QuickAccess))
	for name := range d.QuickAccess {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
