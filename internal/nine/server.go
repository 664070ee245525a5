// Package nine implements the server loop, request dispatch, and the
// mtime/version propagator, wiring together the file table, FID
// registry, event engine, and radio host. The accept loop uses a
// bufio.Writer per connection, one goroutine per accepted connection,
// and an exponential-backoff retry around Accept for temporary errors.
package nine

import (
	"net"
	"runtime"
	"sync/atomic"
	"time"

	"aqwari.net/retry"

	"sbitx9p/internal/events"
	"sbitx9p/internal/fids"
	"sbitx9p/internal/filetable"
	"sbitx9p/internal/radio"
	"sbitx9p/internal/wire"
)

// Logger receives diagnostic output during a server's operation; the
// interface is satisfied by *log.Logger without adaptation.
type Logger interface {
	Printf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// TraceFunc observes every message as it crosses the wire, in either
// direction. It's a plain callback invoked directly from conn.serve,
// rather than an io.Pipe-based shim, since the wire layer here is a
// direct wire.Msg rather than a byte-stream decoder/encoder pair.
type TraceFunc func(dir byte, remote string, m wire.Msg)

// Server holds everything a connection's dispatch loop needs: the
// static tree, the live radio host, and the shared FID/event state.
// The server loop looks up the target node in Table, then dispatches
// to the FID registry, event engine, or mtime propagator for
// per-request logic.
type Server struct {
	Table  *filetable.Table
	Host   radio.Host
	Events *events.Engine
	Fids   *fids.Registry
	Msize  uint32
	Logger Logger
	Trace  TraceFunc

	connSeq uint64
}

// NewServer builds a Server ready to Serve connections.
func NewServer(table *filetable.Table, host radio.Host, logger Logger) *Server {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Server{
		Table:  table,
		Host:   host,
		Events: events.NewEngine(table),
		Fids:   fids.NewRegistry(),
		Msize:  wire.DefaultMsize,
		Logger: logger,
	}
}

func (s *Server) logf(format string, v ...interface{}) {
	s.Logger.Printf(format, v...)
}

// Serve accepts connections on l until Accept returns a non-temporary
// error, spawning one goroutine per connection. Temporary accept
// errors are retried with capped exponential backoff.
func (s *Server) Serve(l net.Listener) error {
	type tempErr interface {
		Temporary() bool
	}
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	try := 0

	for {
		rwc, err := l.Accept()
		if err != nil {
			if terr, ok := err.(tempErr); ok && terr.Temporary() {
				try++
				wait := backoff(try)
				s.logf("9p: accept error: %v; retrying in %v", err, wait)
				time.Sleep(wait)
				continue
			}
			return err
		}
		try = 0
		c := s.newConn(rwc)
		go c.serve()
	}
}

func (s *Server) newConn(rwc net.Conn) *conn {
	id := atomic.AddUint64(&s.connSeq, 1)
	return &conn{
		id:  id,
		rwc: rwc,
		srv: s,
	}
}

func recoverPanic(logf func(string, ...interface{}), remote net.Addr) {
	if err := recover(); err != nil {
		const size = 64 << 10
		buf := make([]byte, size)
		buf = buf[:runtime.Stack(buf, false)]
		logf("9p: panic serving %v: %v\n%s", remote, err, buf)
	}
}
