package navigation

import (
	"sort"
	"strings"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
)

// orderedIndex maps lowercased keys to values and remembers insertion order,
// so substring fallbacks are deterministic. The first insertion of a key wins.
type orderedIndex[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedIndex[V any]() *orderedIndex[V] {
	return &orderedIndex[V]{values: make(map[string]V)}
}

func (ix *orderedIndex[V]) add(key string, v V) {
	key = normalize(key)
	if key == "" {
		return
	}
	if _, exists := ix.values[key]; exists {
		return
	}
	ix.keys = append(ix.keys, key)
	ix.values[key] = v
}

func (ix *orderedIndex[V]) get(key string) (V, bool) {
	v, ok := ix.values[key]
	return v, ok
}

// fuzzy returns the first entry whose key contains query or is contained in it.
func (ix *orderedIndex[V]) fuzzy(query string) (V, bool) {
	for _, k := range ix.keys {
		if strings.Contains(k, query) || strings.Contains(query, k) {
			return ix.values[k], true
		}
	}
	var zero V
	return zero, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ServiceEntry ties a service to the department that offers it.
type ServiceEntry struct {
	DepartmentID string           `json:"department_id"`
	Service      facility.Service `json:"service"`
}

// Indices are the read-only lookup tables built alongside the graph.
type Indices struct {
	locations   *orderedIndex[string] // name and full name -> node id
	departments *orderedIndex[string] // department name and full name -> node id
	services    *orderedIndex[ServiceEntry]
	faculty     *orderedIndex[int] // name -> position in facultyList
	facultyList []facility.Faculty
}

// BuildIndices indexes every location, department, department service and faculty member in one pass.
func BuildIndices(desc *facility.Description) *Indices {
	ix := &Indices{
		locations:   newOrderedIndex[string](),
		departments: newOrderedIndex[string](),
		services:    newOrderedIndex[ServiceEntry](),
		faculty:     newOrderedIndex[int](),
	}

	for _, key := range desc.FloorKeys() {
		for _, loc := range desc.Floors[key].Locations {
			ix.locations.add(loc.Name, loc.ID)
			ix.locations.add(loc.FullName, loc.ID)

			// Services are indexed under their owning department only.
			if loc.Type != facility.TypeDepartment {
				continue
			}
			ix.departments.add(loc.Name, loc.ID)
			ix.departments.add(loc.FullName, loc.ID)
			for _, svc := range loc.Services {
				ix.services.add(svc.Name, ServiceEntry{DepartmentID: loc.ID, Service: svc})
			}
		}
	}

	ix.facultyList = append(ix.facultyList, desc.Faculty...)
	for i, f := range ix.facultyList {
		ix.faculty.add(f.Name, i)
	}

	return ix
}

// Resolve maps free text to a node id: exact location, department and service matches first,
// then a two-way substring scan over the same tables in that order.
// An empty query never resolves.
func (ix *Indices) Resolve(query string) (string, bool) {
	q := normalize(query)
	if q == "" {
		return "", false
	}

	if id, ok := ix.locations.get(q); ok {
		return id, true
	}
	if id, ok := ix.departments.get(q); ok {
		return id, true
	}
	if e, ok := ix.services.get(q); ok {
		return e.DepartmentID, true
	}

	if id, ok := ix.locations.fuzzy(q); ok {
		return id, true
	}
	if id, ok := ix.departments.fuzzy(q); ok {
		return id, true
	}
	if e, ok := ix.services.fuzzy(q); ok {
		return e.DepartmentID, true
	}
	return "", false
}

// Match kinds reported by Candidates, best first.
const (
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchContains = "contains"
	MatchWithin   = "within"
)

var matchRank = map[string]int{
	MatchExact:    0,
	MatchPrefix:   1,
	MatchContains: 2,
	MatchWithin:   3,
}

// Candidate is one possible resolution of an ambiguous query.
type Candidate struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Match string `json:"match"`
	// Service is set when the candidate was reached through a service name.
	Service string `json:"service,omitempty"`
}

// Candidates lists every node the query could resolve to, best match first.
// Within a match kind the order is the same one Resolve scans, so the first
// candidate is always what Resolve returns.
func (ix *Indices) Candidates(query string) []Candidate {
	q := normalize(query)
	if q == "" {
		return nil
	}

	type ranked struct {
		Candidate
		seq int
	}
	var all []ranked
	seen := make(map[string]int) // node id -> position in all
	scanned := 0

	consider := func(key, id, service string) {
		kind := classify(q, key)
		if kind == "" {
			return
		}
		scanned++
		c := ranked{Candidate: Candidate{ID: id, Key: key, Match: kind, Service: service}, seq: scanned}
		if pos, ok := seen[id]; ok {
			if matchRank[kind] < matchRank[all[pos].Match] {
				if fuzzyClass(kind) == fuzzyClass(all[pos].Match) {
					c.seq = all[pos].seq
				}
				all[pos] = c
			}
			return
		}
		seen[id] = len(all)
		all = append(all, c)
	}

	for _, k := range ix.locations.keys {
		consider(k, ix.locations.values[k], "")
	}
	for _, k := range ix.departments.keys {
		consider(k, ix.departments.values[k], "")
	}
	for _, k := range ix.services.keys {
		e := ix.services.values[k]
		consider(k, e.DepartmentID, e.Service.Name)
	}

	// Resolve treats prefix and contains as one fuzzy class.
	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := fuzzyClass(all[i].Match), fuzzyClass(all[j].Match)
		if ri != rj {
			return ri < rj
		}
		return all[i].seq < all[j].seq
	})

	out := make([]Candidate, len(all))
	for i, c := range all {
		out[i] = c.Candidate
	}
	return out
}

func classify(q, key string) string {
	switch {
	case key == q:
		return MatchExact
	case strings.HasPrefix(key, q):
		return MatchPrefix
	case strings.Contains(key, q):
		return MatchContains
	case strings.Contains(q, key):
		return MatchWithin
	default:
		return ""
	}
}

func fuzzyClass(kind string) int {
	if kind == MatchExact {
		return 0
	}
	return 1
}

// Faculty resolves free text to a faculty record: exact name first, then two-way substring.
func (ix *Indices) Faculty(query string) (*facility.Faculty, bool) {
	q := normalize(query)
	if q == "" {
		return nil, false
	}
	if i, ok := ix.faculty.get(q); ok {
		return &ix.facultyList[i], true
	}
	if i, ok := ix.faculty.fuzzy(q); ok {
		return &ix.facultyList[i], true
	}
	return nil, false
}

// FacultyCount returns the number of indexed faculty members.
func (ix *Indices) FacultyCount() int {
	return len(ix.facultyList)
}
