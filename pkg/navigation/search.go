package navigation

import (
	"strings"
	"time"
)

// LocationHit is a location whose name or full name matched a search.
type LocationHit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Floor    string `json:"floor"`
	Type     string `json:"type"`
}

// FacultyHit is a faculty member whose name matched a search.
type FacultyHit struct {
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Availability string `json:"availability,omitempty"`
	Schedule     string `json:"schedule,omitempty"`
	RoomID       string `json:"room_id"`
	Floor        string `json:"floor"`
}

// DepartmentHit is a department whose name or full name matched a search.
type DepartmentHit struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FullName string   `json:"full_name,omitempty"`
	Floor    string   `json:"floor"`
	Services []string `json:"services,omitempty"`
}

// ServiceHit is a service whose name matched a search.
type ServiceHit struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Hours        string `json:"hours,omitempty"`
	DepartmentID string `json:"department_id"`
	Department   string `json:"department"`
	Floor        string `json:"floor"`
}

// SearchResults groups matches by index.
type SearchResults struct {
	Query       string          `json:"query"`
	Locations   []LocationHit   `json:"locations"`
	Faculty     []FacultyHit    `json:"faculty"`
	Departments []DepartmentHit `json:"departments"`
	Services    []ServiceHit    `json:"services"`
}

// Total returns the number of hits across all groups.
func (r *SearchResults) Total() int {
	return len(r.Locations) + len(r.Faculty) + len(r.Departments) + len(r.Services)
}

// Search runs a case-insensitive substring match of query against every index key.
// Locations and departments are grouped per node rather than per key: a node whose
// name and full name both match is listed once, where per-key grouping would list it
// twice. Faculty and services get one hit per matching key.
func (n *Navigator) Search(query string) *SearchResults {
	began := time.Now()
	q := normalize(query)
	results := &SearchResults{
		Query:       query,
		Locations:   []LocationHit{},
		Faculty:     []FacultyHit{},
		Departments: []DepartmentHit{},
		Services:    []ServiceHit{},
	}
	if q == "" {
		n.record("search", statusOK, began, SearchStats{})
		return results
	}

	ix := n.index
	seen := make(map[string]bool)
	for _, k := range ix.locations.keys {
		id := ix.locations.values[k]
		if !strings.Contains(k, q) || seen[id] {
			continue
		}
		seen[id] = true
		node, _ := n.graph.Node(id)
		results.Locations = append(results.Locations, LocationHit{
			ID:       node.ID,
			Name:     node.Name,
			FullName: node.FullName,
			Floor:    node.Floor,
			Type:     node.Type,
		})
	}

	for _, k := range ix.faculty.keys {
		if !strings.Contains(k, q) {
			continue
		}
		f := ix.facultyList[ix.faculty.values[k]]
		hit := FacultyHit{
			Name:         f.Name,
			Role:         f.Role,
			Availability: f.Availability,
			Schedule:     f.Schedule,
		}
		if f.PrimaryLocation != nil {
			hit.RoomID = f.PrimaryLocation.Room
			if node, ok := n.graph.Node(hit.RoomID); ok {
				hit.Floor = node.Floor
			}
		}
		results.Faculty = append(results.Faculty, hit)
	}

	seen = make(map[string]bool)
	for _, k := range ix.departments.keys {
		id := ix.departments.values[k]
		if !strings.Contains(k, q) || seen[id] {
			continue
		}
		seen[id] = true
		node, _ := n.graph.Node(id)
		hit := DepartmentHit{
			ID:       node.ID,
			Name:     node.Name,
			FullName: node.FullName,
			Floor:    node.Floor,
		}
		for _, s := range node.Services {
			hit.Services = append(hit.Services, s.Name)
		}
		results.Departments = append(results.Departments, hit)
	}

	for _, k := range ix.services.keys {
		if !strings.Contains(k, q) {
			continue
		}
		e := ix.services.values[k]
		node, _ := n.graph.Node(e.DepartmentID)
		results.Services = append(results.Services, ServiceHit{
			Name:         e.Service.Name,
			Description:  e.Service.Description,
			Hours:        e.Service.Hours,
			DepartmentID: node.ID,
			Department:   node.DisplayName(),
			Floor:        node.Floor,
		})
	}

	n.record("search", statusOK, began, SearchStats{})
	return results
}
