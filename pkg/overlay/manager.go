// Package overlay coordinates restriction changes across the navigator, the
// restriction store and peer instances.
package overlay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/replication"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
)

// Change sources reported to the Recorder.
const (
	SourceLocal   = "local"
	SourceRemote  = "remote"
	SourceRestore = "restore"
)

// remoteWriteTimeout bounds persistence of a change received from a peer.
const remoteWriteTimeout = 5 * time.Second

// Announcer publishes local changes to peers. *replication.Node satisfies it.
type Announcer interface {
	Announce(nodeID string, restricted bool, actor string) error
}

// Recorder observes applied changes. *metrics.Registry satisfies it.
type Recorder interface {
	RecordRestrictionChange(source string, restrictedNow int)
}

// Change is the outcome of one restriction request.
type Change struct {
	Node       *navigation.Node `json:"node"`
	Restricted bool             `json:"restricted"`
	// Changed is false when the node was already in the requested state.
	Changed bool   `json:"changed"`
	Actor   string `json:"actor,omitempty"`
	Source  string `json:"source"`
}

// Manager applies restriction changes in order: navigator, then store, then peers.
// A store failure rolls the navigator back; a publish failure is only logged.
type Manager struct {
	mu        sync.Mutex
	nav       *navigation.Navigator
	store     store.RestrictionStore
	announcer Announcer
	recorder  Recorder
	logger    logging.Logger

	watchMu   sync.Mutex
	watchers  map[int]chan Change
	nextWatch int
}

// Option configures a Manager.
type Option func(*Manager)

// WithAnnouncer sets the peer publisher.
func WithAnnouncer(a Announcer) Option {
	return func(m *Manager) { m.announcer = a }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager over nav persisting to st.
func NewManager(nav *navigation.Navigator, st store.RestrictionStore, opts ...Option) *Manager {
	m := &Manager{
		nav:    nav,
		store:  st,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logging.Component("overlay"))
	return m
}

// SetAnnouncer attaches the peer publisher once it exists. The replication node
// needs the manager as its applier, so it is built after the manager.
func (m *Manager) SetAnnouncer(a Announcer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcer = a
}

// Restore loads persisted restrictions into the navigator. Ids the current
// facility does not know are skipped with a warning.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs, err := m.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore restrictions: %w", err)
	}

	applied := 0
	for _, r := range rs {
		if _, err := m.nav.SetRestricted(r.NodeID, true); err != nil {
			m.logger.Warn("skipping stored restriction", logging.NodeID(r.NodeID), logging.Error(err))
			continue
		}
		applied++
	}
	m.record(SourceRestore)
	m.logger.Info("restrictions restored", logging.Count(applied))
	return applied, nil
}

// Apply resolves location and sets its restriction on behalf of actor.
func (m *Manager) Apply(ctx context.Context, location string, restricted bool, actor string) (*Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, changed, err := m.nav.MarkRestricted(location, restricted)
	if err != nil {
		return nil, err
	}
	change := &Change{Node: node, Restricted: restricted, Changed: changed, Actor: actor, Source: SourceLocal}
	if !changed {
		return change, nil
	}

	r := store.Restriction{NodeID: node.ID, RestrictedBy: actor, UpdatedAt: time.Now().UTC()}
	if err := m.store.Set(ctx, r, restricted); err != nil {
		if _, rbErr := m.nav.SetRestricted(node.ID, !restricted); rbErr != nil {
			m.logger.Error("rollback failed", logging.NodeID(node.ID), logging.Error(rbErr))
		}
		return nil, fmt.Errorf("persist restriction for %s: %w", node.ID, err)
	}

	if m.announcer != nil {
		if err := m.announcer.Announce(node.ID, restricted, actor); err != nil {
			m.logger.Warn("failed to announce restriction", logging.NodeID(node.ID), logging.Error(err))
		}
	}

	m.record(SourceLocal)
	m.notify(*change)
	m.logger.Info("restriction applied",
		logging.NodeID(node.ID),
		logging.Bool("restricted", restricted),
		logging.String("actor", actor))
	return change, nil
}

// ApplyRemote applies a change announced by a peer. It is persisted but not re-announced.
func (m *Manager) ApplyRemote(ev replication.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed, err := m.nav.SetRestricted(ev.NodeID, ev.Restricted)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()
	r := store.Restriction{NodeID: ev.NodeID, RestrictedBy: ev.Actor, UpdatedAt: ev.At}
	if err := m.store.Set(ctx, r, ev.Restricted); err != nil {
		m.logger.Warn("failed to persist remote restriction",
			logging.NodeID(ev.NodeID),
			logging.String("origin", ev.Origin),
			logging.Error(err))
	}

	m.record(SourceRemote)
	if node, ok := m.nav.Graph().Node(ev.NodeID); ok {
		m.notify(Change{Node: node, Restricted: ev.Restricted, Changed: true, Actor: ev.Actor, Source: SourceRemote})
	}
	return nil
}

// Watch returns a channel receiving every applied change, local or remote, and a
// function that stops delivery. Changes are dropped for a watcher whose buffer is full.
func (m *Manager) Watch(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	m.watchMu.Lock()
	if m.watchers == nil {
		m.watchers = make(map[int]chan Change)
	}
	id := m.nextWatch
	m.nextWatch++
	m.watchers[id] = ch
	m.watchMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.watchMu.Lock()
			delete(m.watchers, id)
			m.watchMu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) notify(c Change) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	for id, ch := range m.watchers {
		select {
		case ch <- c:
		default:
			m.logger.Debug("dropping change for slow watcher", logging.Int("watcher", id))
		}
	}
}

// Restricted returns the restricted nodes ordered by id.
func (m *Manager) Restricted() []*navigation.Node {
	ids := m.nav.Restricted()
	out := make([]*navigation.Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := m.nav.Graph().Node(id); ok {
			out = append(out, node)
		}
	}
	return out
}

func (m *Manager) record(source string) {
	if m.recorder != nil {
		m.recorder.RecordRestrictionChange(source, len(m.nav.Restricted()))
	}
}
