package replication

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// Applier applies an event received from a peer to the local overlay.
type Applier interface {
	ApplyRemote(ev ChangeEvent) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ev ChangeEvent) error

// ApplyRemote calls f(ev).
func (f ApplierFunc) ApplyRemote(ev ChangeEvent) error {
	return f(ev)
}

// Recorder counts events by direction and outcome. *metrics.Registry satisfies it.
type Recorder interface {
	RecordSyncEvent(direction, status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordSyncEvent(string, string) {}

// Subscriber receives restriction events from peers and applies those that did
// not originate here.
type Subscriber struct {
	socket      SubSocket
	origin      string
	peers       []string
	applier     Applier
	recvTimeout time.Duration
	logger      logging.Logger
	recorder    Recorder

	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex

	stateMu   sync.RWMutex
	lastEvent time.Time
	applied   int
	recvErr   error
}

// SubscriberConfig configures the subscriber.
type SubscriberConfig struct {
	Origin      string   // this instance's id; events carrying it are ignored
	Peers       []string // publisher addresses, e.g. "tcp://10.0.0.2:7450"
	RecvTimeout time.Duration
}

// NewSubscriber creates a subscriber. Nothing is dialled until Start.
func NewSubscriber(transport Transport, config SubscriberConfig, applier Applier, logger logging.Logger, recorder Recorder) (*Subscriber, error) {
	socket, err := transport.OpenSub()
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}

	timeout := config.RecvTimeout
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Subscriber{
		socket:      socket,
		origin:      config.Origin,
		peers:       append([]string(nil), config.Peers...),
		applier:     applier,
		recvTimeout: timeout,
		logger:      logger,
		recorder:    recorder,
		stopCh:      make(chan struct{}),
	}, nil
}

// Start dials every peer and begins receiving.
func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		return nil
	}

	for _, peer := range s.peers {
		if err := s.socket.Dial(peer); err != nil {
			s.socket.Close()
			return fmt.Errorf("failed to dial peer %s: %w", peer, err)
		}
	}

	if err := s.socket.Subscribe([]byte(Topic)); err != nil {
		s.socket.Close()
		return err
	}

	if err := s.socket.SetRecvDeadline(s.recvTimeout); err != nil {
		s.socket.Close()
		return err
	}

	s.running = true
	s.wg.Add(1)
	go s.subscribeLoop()

	s.logger.Info("restriction subscriber started", logging.Int("peers", len(s.peers)))
	return nil
}

// Stop stops the subscriber.
func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}

	close(s.stopCh)
	s.running = false
	s.wg.Wait()
	s.socket.Close()

	s.logger.Info("restriction subscriber stopped")
	return nil
}

// Peers returns the number of configured peers.
func (s *Subscriber) Peers() int {
	return len(s.peers)
}

// Err returns the error that stopped the receive loop, or nil while it runs.
func (s *Subscriber) Err() error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.recvErr
}

// LastEvent returns when a remote event was last applied and how many have been.
func (s *Subscriber) LastEvent() (time.Time, int) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastEvent, s.applied
}

func (s *Subscriber) subscribeLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		msg, err := s.socket.Recv()
		switch {
		case err == nil:
			s.handle(msg)
		case errors.Is(err, mangos.ErrRecvTimeout):
		default:
			s.recorder.RecordSyncEvent("received", "error")
			s.stateMu.Lock()
			s.recvErr = err
			s.stateMu.Unlock()
			if errors.Is(err, mangos.ErrClosed) {
				s.logger.Warn("subscriber socket closed, receive loop stopped")
			} else {
				s.logger.Error("receive failed, receive loop stopped", logging.Error(err))
			}
			return
		}
	}
}

func (s *Subscriber) handle(msg []byte) {
	ev, err := DecodeEvent(msg)
	if err != nil {
		s.recorder.RecordSyncEvent("received", "error")
		s.logger.Warn("dropping malformed restriction event", logging.Error(err))
		return
	}

	if ev.Origin == s.origin {
		s.recorder.RecordSyncEvent("received", "ignored")
		return
	}

	if err := s.applier.ApplyRemote(ev); err != nil {
		s.recorder.RecordSyncEvent("received", "error")
		s.logger.Warn("failed to apply restriction event",
			logging.NodeID(ev.NodeID),
			logging.String("origin", ev.Origin),
			logging.Error(err))
		return
	}

	s.stateMu.Lock()
	s.lastEvent = time.Now()
	s.applied++
	s.stateMu.Unlock()

	s.recorder.RecordSyncEvent("received", "ok")
	s.logger.Info("applied remote restriction",
		logging.NodeID(ev.NodeID),
		logging.Bool("restricted", ev.Restricted),
		logging.String("origin", ev.Origin))
}
