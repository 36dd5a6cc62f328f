package navigation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// ErrInvalidWeekday is returned by ParseWeekday for unrecognised day names.
var ErrInvalidWeekday = errors.New("invalid weekday")

// FacultyAvailable evaluates free-text availability against a day of the week.
// "saturday only" means Saturday alone; any other mention of Saturday adds it to the
// working week; otherwise Monday to Friday is assumed. Nobody is available on Sunday.
func FacultyAvailable(f *facility.Faculty, day time.Weekday) bool {
	text := strings.ToLower(f.Availability)

	if strings.Contains(text, "saturday only") {
		return day == time.Saturday
	}
	if day == time.Sunday {
		return false
	}
	if day == time.Saturday {
		return strings.Contains(text, "saturday")
	}
	return true
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := normalize(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// FacultyLocations lists every room a faculty member may be found in, primary first.
func (n *Navigator) FacultyLocations(name string) ([]FacultyLocation, error) {
	f, err := n.FindFaculty(name)
	if err != nil {
		return nil, err
	}

	rooms := f.Rooms()
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFacultyLocation, f.Name)
	}

	out := make([]FacultyLocation, 0, len(rooms))
	for _, ref := range rooms {
		floor := ref.Floor
		if node, ok := n.graph.Node(ref.Room); ok {
			floor = node.Floor
		}
		out = append(out, FacultyLocation{RoomID: ref.Room, Floor: floor, Schedule: f.Schedule})
	}
	return out, nil
}

// NavigateToFaculty routes from start to the nearest room of the named faculty member.
// Each candidate room is searched independently; the shortest wins and ties keep the
// earlier room. When day is nil the member is reported as available.
func (n *Navigator) NavigateToFaculty(start, name string, day *time.Weekday) (*FacultyRoute, error) {
	began := time.Now()

	startID, ok := n.index.Resolve(start)
	if !ok {
		n.record("faculty", statusNotFound, began, SearchStats{})
		n.logger.Debug("faculty route start not resolved", logging.Query(start))
		return nil, fmt.Errorf("%w: %q", ErrStartNotFound, start)
	}

	f, err := n.FindFaculty(name)
	if err != nil {
		n.record("faculty", statusNotFound, began, SearchStats{})
		return nil, err
	}

	rooms := f.Rooms()
	if len(rooms) == 0 {
		n.record("faculty", statusNotFound, began, SearchStats{})
		return nil, fmt.Errorf("%w: %s", ErrNoFacultyLocation, f.Name)
	}

	restricted := n.restrictions.Snapshot()
	var (
		bestPath  []string
		bestDist  int
		bestRoom  string
		found     bool
		totalWork SearchStats
	)
	for _, ref := range rooms {
		path, dist, stats, ok := ShortestPath(n.graph, startID, ref.Room, restricted)
		totalWork.Settled += stats.Settled
		totalWork.Relaxed += stats.Relaxed
		if !ok {
			continue
		}
		if !found || dist < bestDist {
			bestPath, bestDist, bestRoom, found = path, dist, ref.Room, true
		}
	}

	if !found {
		n.record("faculty", statusNoPath, began, totalWork)
		return nil, fmt.Errorf("%w: from %q to any room of %s", ErrNoPath, startID, f.Name)
	}

	result := n.annotate(bestPath, bestDist, restricted)
	room, _ := n.graph.Node(bestRoom)

	available := true
	if day != nil {
		available = FacultyAvailable(f, *day)
	}
	if !available {
		n.logger.Info("faculty unavailable on requested day",
			logging.String("faculty", f.Name),
			logging.String("day", day.String()))
	}

	n.record("faculty", statusOK, began, totalWork)
	return &FacultyRoute{
		Faculty:   f,
		Room:      room,
		Route:     result,
		Available: available,
	}, nil
}

// FindFaculty resolves free text to a faculty record.
func (n *Navigator) FindFaculty(name string) (*facility.Faculty, error) {
	f, ok := n.index.Faculty(name)
	if !ok {
		n.logger.Debug("faculty not resolved", logging.Query(name))
		return nil, fmt.Errorf("%w: %q", ErrFacultyNotFound, name)
	}
	return f, nil
}
