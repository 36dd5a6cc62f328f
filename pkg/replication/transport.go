package replication

import (
	"io"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// tcp, ipc, inproc and ws peers
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// PubSocket binds an address and broadcasts to every connected subscriber.
type PubSocket interface {
	io.Closer
	Listen(addr string) error
	Send(msg []byte) error
}

// SubSocket dials publishers and receives messages whose prefix matches a subscribed topic.
type SubSocket interface {
	io.Closer
	Dial(addr string) error
	Subscribe(topic []byte) error
	SetRecvDeadline(d time.Duration) error
	Recv() ([]byte, error)
}

// Transport opens the sockets a Node needs. Tests substitute an in-memory bus.
type Transport interface {
	OpenPub() (PubSocket, error)
	OpenSub() (SubSocket, error)
}

// MangosTransport speaks the nanomsg PUB/SUB protocol.
type MangosTransport struct{}

// NewMangosTransport returns the production transport.
func NewMangosTransport() MangosTransport {
	return MangosTransport{}
}

func (MangosTransport) OpenPub() (PubSocket, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, err
	}
	return mangosPub{sock}, nil
}

func (MangosTransport) OpenSub() (SubSocket, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, err
	}
	return mangosSub{sock}, nil
}

type mangosPub struct{ mangos.Socket }

type mangosSub struct{ mangos.Socket }

// Dial returns immediately; a peer that is not up yet is retried in the background.
func (s mangosSub) Dial(addr string) error {
	return s.DialOptions(addr, map[string]any{mangos.OptionDialAsynch: true})
}

func (s mangosSub) Subscribe(topic []byte) error {
	return s.SetOption(mangos.OptionSubscribe, topic)
}

func (s mangosSub) SetRecvDeadline(d time.Duration) error {
	return s.SetOption(mangos.OptionRecvDeadline, d)
}

var _ Transport = MangosTransport{}
