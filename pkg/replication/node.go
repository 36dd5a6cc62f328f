package replication

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/google/uuid"
)

// Config configures restriction fan-out for one server instance.
type Config struct {
	InstanceID  string // generated when empty
	PublishAddr string // empty disables publishing
	Peers       []string
	BufferSize  int
	RecvTimeout time.Duration
}

// Enabled reports whether this instance talks to any peer.
func (c Config) Enabled() bool {
	return c.PublishAddr != "" || len(c.Peers) > 0
}

// Node publishes local restriction changes and applies changes from peers.
type Node struct {
	id         string
	publisher  *Publisher
	subscriber *Subscriber
	logger     logging.Logger
}

// NewNode builds the sockets a Config asks for. On error nothing is left open.
func NewNode(transport Transport, cfg Config, applier Applier, logger logging.Logger, recorder Recorder) (*Node, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	logger = logger.With(logging.Component("sync"), logging.String("instance", cfg.InstanceID))

	n := &Node{id: cfg.InstanceID, logger: logger}

	if cfg.PublishAddr != "" {
		pub, err := NewPublisher(transport, PublisherConfig{Address: cfg.PublishAddr, BufferSize: cfg.BufferSize}, logger, recorder)
		if err != nil {
			return nil, err
		}
		n.publisher = pub
	}

	if len(cfg.Peers) > 0 {
		sub, err := NewSubscriber(transport, SubscriberConfig{
			Origin:      cfg.InstanceID,
			Peers:       cfg.Peers,
			RecvTimeout: cfg.RecvTimeout,
		}, applier, logger, recorder)
		if err != nil {
			if n.publisher != nil {
				if cerr := n.publisher.socket.Close(); cerr != nil {
					logger.Warn("failed to close publisher socket", logging.Error(cerr))
				}
			}
			return nil, err
		}
		n.subscriber = sub
	}

	return n, nil
}

// ID returns the instance id stamped on published events.
func (n *Node) ID() string {
	return n.id
}

// Start starts the publisher, then the subscriber.
func (n *Node) Start() error {
	if n.publisher != nil {
		if err := n.publisher.Start(); err != nil {
			return err
		}
	}
	if n.subscriber != nil {
		if err := n.subscriber.Start(); err != nil {
			if n.publisher != nil {
				n.publisher.Stop()
			}
			return err
		}
	}
	return nil
}

// Stop stops both halves.
func (n *Node) Stop() error {
	var firstErr error
	if n.subscriber != nil {
		firstErr = n.subscriber.Stop()
	}
	if n.publisher != nil {
		if err := n.publisher.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Announce publishes a local change. It is a no-op when publishing is disabled.
func (n *Node) Announce(nodeID string, restricted bool, actor string) error {
	if n.publisher == nil {
		return nil
	}
	ev := NewChangeEvent(n.id, nodeID, restricted, actor)
	if err := n.publisher.Publish(ev); err != nil {
		return fmt.Errorf("announce %s: %w", nodeID, err)
	}
	return nil
}

// State reports whether sync is on, how many peers are configured, and when a
// remote change was last applied.
func (n *Node) State() (enabled bool, peers int, lastEvent time.Time) {
	enabled = n.publisher != nil || n.subscriber != nil
	if n.subscriber != nil {
		peers = n.subscriber.Peers()
		lastEvent, _ = n.subscriber.LastEvent()
	}
	return enabled, peers, lastEvent
}
