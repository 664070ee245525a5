package nine

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"

	"sbitx9p/internal/wire"
)

// conn holds per-connection state: negotiated msize, whether Tversion
// has run yet, and the attach state. Request handling itself is
// stateless beyond this and the shared Server state in dispatch.go.
type conn struct {
	id  uint64
	rwc net.Conn
	srv *Server

	mu       sync.Mutex
	msize    uint32
	attached bool
	clientID uint64
	openFIDs int
}

// serve reads one request at a time, dispatches it, and writes the
// reply, until the connection errors out or is closed. Requests on a
// single connection are served strictly in receive order; there is no
// per-connection concurrency.
func (c *conn) serve() {
	defer recoverPanic(c.srv.logf, c.rwc.RemoteAddr())
	defer c.teardown()

	c.msize = wire.DefaultMsize
	r := wire.NewReader(c.rwc, c.msize)
	w := bufio.NewWriter(c.rwc)

	for {
		msg, err := r.ReadMsg()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.srv.logf("9p: read error from %v: %v", c.rwc.RemoteAddr(), err)
			}
			return
		}
		if c.srv.Trace != nil {
			c.srv.Trace('<', c.rwc.RemoteAddr().String(), msg)
		}

		reply := c.dispatch(msg)
		if reply == nil {
			// dispatch always produces exactly one of R<type> or
			// Rerror (Tflush included); a nil reply is skipped
			// rather than encoded.
			continue
		}
		if c.srv.Trace != nil {
			c.srv.Trace('>', c.rwc.RemoteAddr().String(), reply)
		}
		if _, err := w.Write(wire.Encode(replyType(reply), reply)); err != nil {
			c.srv.logf("9p: write error to %v: %v", c.rwc.RemoteAddr(), err)
			return
		}
		if err := w.Flush(); err != nil {
			c.srv.logf("9p: flush error to %v: %v", c.rwc.RemoteAddr(), err)
			return
		}
	}
}

// teardown runs when a connection's serve loop exits for any reason:
// every FID it owns is dropped, and if it had attached, its client
// record is detached too.
func (c *conn) teardown() {
	c.srv.Fids.FreeConn(c.id)
	c.mu.Lock()
	attached, clientID := c.attached, c.clientID
	c.attached = false
	c.mu.Unlock()
	if attached {
		c.srv.Events.Detach(clientID)
	}
	c.rwc.Close()
}

// replyType maps a decoded reply struct to its wire message type byte.
func replyType(m wire.Msg) uint8 {
	switch m.(type) {
	case wire.RVersion:
		return wire.MsgRversion
	case wire.RAttach:
		return wire.MsgRattach
	case wire.RWalk:
		return wire.MsgRwalk
	case wire.ROpen:
		return wire.MsgRopen
	case wire.RCreate:
		return wire.MsgRcreate
	case wire.RRead:
		return wire.MsgRread
	case wire.RWrite:
		return wire.MsgRwrite
	case wire.RClunk:
		return wire.MsgRclunk
	case wire.RRemove:
		return wire.MsgRremove
	case wire.RStat:
		return wire.MsgRstat
	case wire.RFlush:
		return wire.MsgRflush
	case wire.RError:
		return wire.MsgRerror
	default:
		panic("nine: reply of unknown type")
	}
}
