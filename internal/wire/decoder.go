package wire

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Reader frames 9P messages off an underlying byte stream: every
// message begins with a 4-byte little-endian size covering the whole
// message, including the 4 size bytes themselves.
type Reader struct {
	br    *bufio.Reader
	msize uint32
}

// NewReader wraps r, rejecting any frame larger than msize.
func NewReader(r io.Reader, msize uint32) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, int(msize)), msize: msize}
}

// readFrame reads one complete 9P frame and splits it into its type
// byte and the tag+body bytes following it.
func (d *Reader) readFrame() (mtype uint8, tagAndBody []byte, err error) {
	var szbuf [4]byte
	if _, err := io.ReadFull(d.br, szbuf[:]); err != nil {
		return 0, nil, err
	}
	size := binary.LittleEndian.Uint32(szbuf[:])
	if size < 7 {
		return 0, nil, ErrShortMessage
	}
	if size > d.msize {
		return 0, nil, ErrMsgTooBig
	}
	rest := make([]byte, size-4)
	if _, err := io.ReadFull(d.br, rest); err != nil {
		return 0, nil, err
	}
	return rest[0], rest[1:], nil
}

// ReadMsg reads one complete 9P request and decodes it. Used by the
// server side of a connection.
func (d *Reader) ReadMsg() (Msg, error) {
	mtype, tagAndBody, err := d.readFrame()
	if err != nil {
		return nil, err
	}
	return Decode(mtype, tagAndBody)
}

// ReadReply reads one complete 9P reply and decodes it. Used by a
// client-side reader waiting on a server's response.
func (d *Reader) ReadReply() (Msg, error) {
	mtype, tagAndBody, err := d.readFrame()
	if err != nil {
		return nil, err
	}
	return DecodeReply(mtype, tagAndBody)
}
