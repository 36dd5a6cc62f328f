package replication

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// ErrPublisherStopped is returned by Publish after Stop.
var ErrPublisherStopped = errors.New("publisher stopped")

// Publisher fans restriction events out to every subscribed peer.
type Publisher struct {
	socket    PubSocket
	addr      string
	stream    chan ChangeEvent
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex
	logger    logging.Logger
	recorder  Recorder
}

// PublisherConfig configures the publisher.
type PublisherConfig struct {
	Address    string // e.g. "tcp://*:7450"
	BufferSize int
}

// NewPublisher creates a publisher. Nothing is bound until Start.
func NewPublisher(transport Transport, config PublisherConfig, logger logging.Logger, recorder Recorder) (*Publisher, error) {
	socket, err := transport.OpenPub()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	bufSize := config.BufferSize
	if bufSize <= 0 {
		bufSize = 256
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Publisher{
		socket:   socket,
		addr:     config.Address,
		stream:   make(chan ChangeEvent, bufSize),
		stopCh:   make(chan struct{}),
		logger:   logger,
		recorder: recorder,
	}, nil
}

// Start binds the socket and begins publishing.
func (p *Publisher) Start() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if p.running {
		return fmt.Errorf("publisher already running")
	}

	if err := p.socket.Listen(p.addr); err != nil {
		return fmt.Errorf("failed to bind PUB socket to %s: %w", p.addr, err)
	}

	p.running = true
	p.wg.Add(1)
	go p.publishLoop()

	p.logger.Info("restriction publisher started", logging.String("addr", p.addr))
	return nil
}

// Stop drains nothing: queued events that were not yet sent are dropped.
func (p *Publisher) Stop() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if !p.running {
		return nil
	}

	close(p.stopCh)
	p.running = false
	p.wg.Wait()

	if err := p.socket.Close(); err != nil {
		p.logger.Warn("failed to close publisher socket", logging.Error(err))
	}

	p.logger.Info("restriction publisher stopped")
	return nil
}

// Publish queues an event. It blocks while the buffer is full.
func (p *Publisher) Publish(ev ChangeEvent) error {
	select {
	case <-p.stopCh:
		return ErrPublisherStopped
	default:
	}

	select {
	case p.stream <- ev:
		return nil
	case <-p.stopCh:
		return ErrPublisherStopped
	}
}

func (p *Publisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case ev := <-p.stream:
			msg, err := ev.Encode()
			if err != nil {
				p.recorder.RecordSyncEvent("sent", "error")
				p.logger.Error("failed to encode restriction event", logging.Error(err))
				continue
			}
			if err := p.socket.Send(msg); err != nil {
				p.recorder.RecordSyncEvent("sent", "error")
				p.logger.Warn("failed to publish restriction event", logging.NodeID(ev.NodeID), logging.Error(err))
				continue
			}
			p.recorder.RecordSyncEvent("sent", "ok")
			p.logger.Debug("restriction event published", logging.NodeID(ev.NodeID), logging.String("event_id", ev.ID))
		}
	}
}
