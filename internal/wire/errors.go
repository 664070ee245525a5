package wire

import "errors"

// Errors returned while decoding a frame off the wire. These never
// reach a 9P client directly: the server loop (internal/nine's
// conn.serve) logs a read or decode error and closes the connection.
// No Rerror is sent for a malformed frame, and the connection does not
// continue past it.
var (
	ErrShortMessage = errors.New("wire: message too short")
	ErrLongString   = errors.New("wire: string field too long")
	ErrMsgTooBig    = errors.New("wire: message exceeds msize")
	ErrUnknownType  = errors.New("wire: unknown message type")
)
