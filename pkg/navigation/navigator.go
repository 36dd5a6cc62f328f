package navigation

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// Query statuses passed to a Recorder.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusNoPath   = "no_path"
)

// Recorder receives one observation per navigator query.
// *metrics.Registry satisfies it.
type Recorder interface {
	RecordQuery(queryType, status string, duration time.Duration, nodesScanned, edgesScanned int)
}

// Navigator answers route, faculty and search queries over one facility.
// The graph and indices are immutable; only the restriction overlay changes,
// and it is safe for concurrent use.
type Navigator struct {
	graph        *Graph
	index        *Indices
	restrictions *Restrictions
	quickAccess  map[string]facility.QuickAccess
	floors       int
	logger       logging.Logger
	recorder     Recorder
}

// Option configures a Navigator.
type Option func(*navigatorOptions)

type navigatorOptions struct {
	mode       Mode
	logger     logging.Logger
	recorder   Recorder
	restricted []string
}

// WithAccessibility builds the graph with elevator connectors instead of stairs.
func WithAccessibility(enabled bool) Option {
	return func(o *navigatorOptions) {
		if enabled {
			o.mode = ModeAccessible
		} else {
			o.mode = ModeStandard
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger logging.Logger) Option {
	return func(o *navigatorOptions) {
		o.logger = logger
	}
}

// WithRecorder reports per-query timings and search work to r.
func WithRecorder(r Recorder) Option {
	return func(o *navigatorOptions) {
		o.recorder = r
	}
}

// WithRestrictions seeds the overlay with node ids, e.g. from a persistent store.
func WithRestrictions(ids ...string) Option {
	return func(o *navigatorOptions) {
		o.restricted = append(o.restricted, ids...)
	}
}

// New builds the graph and indices from desc. Construction is all-or-nothing.
func New(desc *facility.Description, opts ...Option) (*Navigator, error) {
	cfg := navigatorOptions{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	graph, err := BuildGraph(desc, cfg.mode)
	if err != nil {
		return nil, err
	}

	n := &Navigator{
		graph:        graph,
		index:        BuildIndices(desc),
		restrictions: NewRestrictions(),
		quickAccess:  make(map[string]facility.QuickAccess, len(desc.QuickAccess)),
		floors:       len(desc.Floors),
		logger:       cfg.logger.With(logging.Component("navigation"), logging.Mode(cfg.mode.String())),
		recorder:     cfg.recorder,
	}
	for name, qa := range desc.QuickAccess {
		n.quickAccess[normalize(name)] = qa
	}

	for _, id := range cfg.restricted {
		if !graph.Has(id) {
			return nil, fmt.Errorf("%w: restricted id %q", ErrUnknownNode, id)
		}
		n.restrictions.Set(id, true)
	}

	n.logger.Info("navigator ready",
		logging.Int("nodes", graph.NodeCount()),
		logging.Int("edges", graph.EdgeCount()),
		logging.Int("restricted", n.restrictions.Len()))
	return n, nil
}

// Graph returns the underlying graph.
func (n *Navigator) Graph() *Graph {
	return n.graph
}

// Mode returns the graph mode.
func (n *Navigator) Mode() Mode {
	return n.graph.Mode()
}

// Navigate resolves both endpoints from free text and returns the shortest route.
func (n *Navigator) Navigate(start, destination string) (*PathResult, error) {
	began := time.Now()

	startID, ok := n.index.Resolve(start)
	if !ok {
		n.record("navigate", statusNotFound, began, SearchStats{})
		n.logger.Debug("start not resolved", logging.Query(start))
		return nil, fmt.Errorf("%w: %q", ErrStartNotFound, start)
	}
	destID, ok := n.index.Resolve(destination)
	if !ok {
		n.record("navigate", statusNotFound, began, SearchStats{})
		n.logger.Debug("destination not resolved", logging.Query(destination))
		return nil, fmt.Errorf("%w: %q", ErrDestinationNotFound, destination)
	}

	return n.route("navigate", startID, destID, began)
}

// Route finds the shortest route between two node ids. Unknown ids yield an error
// matching both ErrNoPath and ErrUnknownNode.
func (n *Navigator) Route(startID, destID string) (*PathResult, error) {
	return n.route("route", startID, destID, time.Now())
}

func (n *Navigator) route(kind, startID, destID string, began time.Time) (*PathResult, error) {
	for _, id := range []string{startID, destID} {
		if !n.graph.Has(id) {
			n.record(kind, statusNoPath, began, SearchStats{})
			return nil, fmt.Errorf("%w: %w %q", ErrNoPath, ErrUnknownNode, id)
		}
	}

	restricted := n.restrictions.Snapshot()
	path, dist, stats, ok := ShortestPath(n.graph, startID, destID, restricted)
	if !ok {
		n.record(kind, statusNoPath, began, stats)
		n.logger.Info("no path",
			logging.String("from", startID),
			logging.String("to", destID),
			logging.Int("restricted", len(restricted)))
		return nil, fmt.Errorf("%w: from %q to %q", ErrNoPath, startID, destID)
	}

	result := n.annotate(path, dist, restricted)
	n.record(kind, statusOK, began, stats)
	n.logger.Debug("route found",
		logging.String("from", startID),
		logging.String("to", destID),
		logging.Distance(dist),
		logging.Int("settled", stats.Settled))
	return result, nil
}

// annotate turns a raw id path into a PathResult and attaches restriction advisories.
func (n *Navigator) annotate(ids []string, dist int, restricted map[string]struct{}) *PathResult {
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i], _ = n.graph.Node(id)
	}

	result := Annotate(nodes, dist, n.graph.Mode())
	dest := nodes[len(nodes)-1]
	if _, ok := restricted[dest.ID]; ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s is currently restricted; access may be limited.", dest.DisplayName()))
		n.logger.Warn("route ends at restricted location", logging.NodeID(dest.ID), logging.Floor(dest.Floor))
	}
	return result
}

// FindLocation resolves free text to a node.
func (n *Navigator) FindLocation(query string) (*Node, error) {
	id, ok := n.index.Resolve(query)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}
	node, _ := n.graph.Node(id)
	return node, nil
}

// LocationMatch is a ranked resolution candidate with its node.
type LocationMatch struct {
	Node    *Node  `json:"node"`
	Key     string `json:"key"`
	Match   string `json:"match"`
	Service string `json:"service,omitempty"`
}

// LocationCandidates lists every node query could resolve to, best first.
// The first entry is always the node FindLocation returns.
func (n *Navigator) LocationCandidates(query string) []LocationMatch {
	cands := n.index.Candidates(query)
	out := make([]LocationMatch, 0, len(cands))
	for _, c := range cands {
		node, _ := n.graph.Node(c.ID)
		out = append(out, LocationMatch{Node: node, Key: c.Key, Match: c.Match, Service: c.Service})
	}
	return out
}

// MarkRestricted resolves name and updates its restriction. It reports the node and
// whether membership changed.
func (n *Navigator) MarkRestricted(name string, restricted bool) (*Node, bool, error) {
	node, err := n.FindLocation(name)
	if err != nil {
		return nil, false, err
	}
	changed, err := n.SetRestricted(node.ID, restricted)
	return node, changed, err
}

// SetRestricted adds or removes a node id from the overlay.
func (n *Navigator) SetRestricted(id string, restricted bool) (bool, error) {
	if !n.graph.Has(id) {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	changed := n.restrictions.Set(id, restricted)
	if changed {
		n.logger.Info("restriction updated", logging.NodeID(id), logging.Bool("restricted", restricted))
	}
	return changed, nil
}

// Restricted returns the currently restricted ids in sorted order.
func (n *Navigator) Restricted() []string {
	return n.restrictions.List()
}

// IsRestricted reports whether id is in the overlay.
func (n *Navigator) IsRestricted(id string) bool {
	return n.restrictions.Contains(id)
}

// QuickAccess resolves a named shortcut such as "printing" to its node.
func (n *Navigator) QuickAccess(name string) (*Node, error) {
	qa, ok := n.quickAccess[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuickAccess, name)
	}
	return n.FindLocation(qa.Location)
}

// QuickAccessNames returns the shortcut names in sorted order.
func (n *Navigator) QuickAccessNames() []string {
	d := facility.Description{QuickAccess: n.quickAccess}
	return d.QuickAccessNames()
}

// FacultyMembers returns every faculty record in document order.
func (n *Navigator) FacultyMembers() []facility.Faculty {
	out := make([]facility.Faculty, len(n.index.facultyList))
	copy(out, n.index.facultyList)
	return out
}

// Stats summarises the navigator.
func (n *Navigator) Stats() Stats {
	return Stats{
		Mode:       n.graph.Mode().String(),
		Nodes:      n.graph.NodeCount(),
		Edges:      n.graph.EdgeCount(),
		Floors:     n.floors,
		Faculty:    n.index.FacultyCount(),
		Restricted: n.restrictions.Len(),
	}
}

func (n *Navigator) record(kind, status string, began time.Time, stats SearchStats) {
	if n.recorder == nil {
		return
	}
	n.recorder.RecordQuery(kind, status, time.Since(began), stats.Settled, stats.Relaxed)
}
