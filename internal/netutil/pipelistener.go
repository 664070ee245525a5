package netutil

import (
	"errors"
	"net"
	"sync"
)

var errClosed = errors.New("netutil: listener closed")

// PipeListener is a net.Listener backed by net.Pipe, needing no real
// socket or port. Used by internal/nine's tests to drive the server
// loop end to end without binding to 564 (which requires root on most
// systems) or colliding across parallel test runs.
type PipeListener struct {
	once     sync.Once
	incoming chan net.Conn
	shutdown chan struct{}
}

func (l *PipeListener) init() {
	l.once.Do(func() {
		l.incoming = make(chan net.Conn)
		l.shutdown = make(chan struct{})
	})
}

// Accept blocks until Dial is called or the listener is closed.
func (l *PipeListener) Accept() (net.Conn, error) {
	l.init()
	select {
	case c := <-l.incoming:
		return c, nil
	case <-l.shutdown:
		return nil, errClosed
	}
}

// Dial creates a connected pair of net.Conns, handing one to a pending
// or future Accept and returning the other.
func (l *PipeListener) Dial() (net.Conn, error) {
	l.init()
	x, y := net.Pipe()
	select {
	case <-l.shutdown:
		x.Close()
		y.Close()
		return nil, errClosed
	case l.incoming <- x:
		return y, nil
	}
}

// Close closes a PipeListener, unblocking any pending Accept.
func (l *PipeListener) Close() error {
	l.init()
	select {
	case <-l.shutdown:
	default:
		close(l.shutdown)
	}
	return nil
}

type dummyAddr struct{}

func (dummyAddr) String() string  { return "pipe" }
func (dummyAddr) Network() string { return "pipe" }

// Addr returns a placeholder address; PipeListener has no real socket.
func (l *PipeListener) Addr() net.Addr {
	l.init()
	return dummyAddr{}
}
