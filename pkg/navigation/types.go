package navigation

import (
	"strings"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
)

// Role classifies a node once at construction so queries never inspect type strings.
type Role int

const (
	RoleRoom Role = iota
	RoleDepartment
	RoleStairs
	RoleElevator
	RoleFacility
	// RoleConnector is a navigation link that is neither stairs nor an elevator.
	RoleConnector
)

// String returns the string representation of a role
func (r Role) String() string {
	switch r {
	case RoleRoom:
		return "room"
	case RoleDepartment:
		return "department"
	case RoleStairs:
		return "stairs"
	case RoleElevator:
		return "elevator"
	case RoleFacility:
		return "facility"
	case RoleConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// IsConnector reports whether the role belongs to a navigation location.
func (r Role) IsConnector() bool {
	return r == RoleStairs || r == RoleElevator || r == RoleConnector
}

// roleOf decides the role of a location from its declared type and id.
// kinds holds the connector kinds the location is an endpoint of.
// A navigation id naming stairs or an elevator wins; otherwise a stairs connector
// outranks an elevator one, and a navigation location on neither is a plain connector.
func roleOf(loc facility.Location, kinds map[string]bool) Role {
	switch loc.Type {
	case facility.TypeDepartment:
		return RoleDepartment
	case facility.TypeNavigation:
		id := strings.ToLower(loc.ID)
		switch {
		case strings.Contains(id, "stair"):
			return RoleStairs
		case strings.Contains(id, "elevator") || strings.Contains(id, "lift"):
			return RoleElevator
		case kinds[facility.KindStairs]:
			return RoleStairs
		case kinds[facility.KindElevator]:
			return RoleElevator
		}
		return RoleConnector
	case facility.TypeFacility:
		return RoleFacility
	default:
		return RoleRoom
	}
}

// Mode selects which vertical edge set a graph carries. It is fixed at construction.
type Mode int

const (
	ModeStandard Mode = iota
	ModeAccessible
)

// String returns the string representation of a mode
func (m Mode) String() string {
	if m == ModeAccessible {
		return "accessible"
	}
	return "standard"
}

// Node is an immutable point in the facility graph.
type Node struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	FullName    string             `json:"full_name,omitempty"`
	Description string             `json:"description,omitempty"`
	Floor       string             `json:"floor"`
	FloorKey    string             `json:"floor_key"`
	Level       int                `json:"level"`
	Type        string             `json:"type"`
	Role        Role               `json:"-"`
	Services    []facility.Service `json:"services,omitempty"`
}

// DisplayName prefers the full name over the short name.
func (n *Node) DisplayName() string {
	if n.FullName != "" {
		return n.FullName
	}
	return n.Name
}

// HasServices reports whether the node offers any services.
func (n *Node) HasServices() bool {
	return len(n.Services) > 0
}

// Edge is one direction of an undirected weighted connection.
type Edge struct {
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// PathResult is the annotated output of a successful route search.
type PathResult struct {
	Path                  []*Node  `json:"path"`
	Distance              int      `json:"distance"`
	Directions            []string `json:"directions"`
	FloorChanges          int      `json:"floor_changes"`
	UsesStairs            bool     `json:"uses_stairs"`
	EstimatedTimeMinutes  float64  `json:"estimated_time_minutes"`
	AccessibilityFriendly bool     `json:"accessibility_friendly"`
	Warnings              []string `json:"warnings,omitempty"`
}

// Start returns the first node of the path.
func (p *PathResult) Start() *Node {
	return p.Path[0]
}

// Destination returns the last node of the path.
func (p *PathResult) Destination() *Node {
	return p.Path[len(p.Path)-1]
}

// NodeIDs returns the identifiers along the path.
func (p *PathResult) NodeIDs() []string {
	ids := make([]string, len(p.Path))
	for i, n := range p.Path {
		ids[i] = n.ID
	}
	return ids
}

// FacultyRoute is the result of routing to a named faculty member.
type FacultyRoute struct {
	Faculty *facility.Faculty `json:"faculty"`
	Room    *Node             `json:"room"`
	Route   *PathResult       `json:"route"`
	// Available is advisory only; an unavailable faculty member is still routed to.
	Available bool `json:"available"`
}

// FacultyLocation is one candidate room for a faculty member.
type FacultyLocation struct {
	RoomID   string `json:"room_id"`
	Floor    string `json:"floor"`
	Schedule string `json:"schedule,omitempty"`
}

// Stats summarises a constructed navigator.
type Stats struct {
	Mode       string `json:"mode"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Floors     int    `json:"floors"`
	Faculty    int    `json:"faculty"`
	Restricted int    `json:"restricted"`
}
