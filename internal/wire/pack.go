package wire

import "encoding/binary"

// Shorthand for parsing numbers off the wire.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64
)

// putter accumulates an encoded message into a growable buffer. Each
// method appends its argument's wire representation and returns the
// receiver, so encoders read as a flat sequence of appends.
type putter struct {
	buf []byte
}

func newPutter(sizeHint int) *putter {
	return &putter{buf: make([]byte, 0, sizeHint)}
}

func (p *putter) u8(v uint8) *putter {
	p.buf = append(p.buf, v)
	return p
}

func (p *putter) u16(v uint16) *putter {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *putter) u32(v uint32) *putter {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *putter) u64(v uint64) *putter {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *putter) bytes(v []byte) *putter {
	p.buf = append(p.buf, v...)
	return p
}

// str appends a 2-byte length prefix followed by the UTF-8 bytes of s,
// the "s" encoding used throughout 9P2000 for strings.
func (p *putter) str(s string) *putter {
	p.u16(uint16(len(s)))
	p.buf = append(p.buf, s...)
	return p
}

func (p *putter) qid(q Qid) *putter {
	p.u8(uint8(q.Type))
	p.u32(q.Version)
	p.u64(q.Path)
	return p
}

// getter reads fields off an undecoded message body in order, tracking
// a read cursor and the first error encountered.
type getter struct {
	buf []byte
	off int
	err error
}

func newGetter(buf []byte) *getter {
	return &getter{buf: buf}
}

func (g *getter) need(n int) []byte {
	if g.err != nil {
		return nil
	}
	if g.off+n > len(g.buf) {
		g.err = ErrShortMessage
		return nil
	}
	b := g.buf[g.off : g.off+n]
	g.off += n
	return b
}

func (g *getter) u8() uint8 {
	b := g.need(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (g *getter) u16() uint16 {
	b := g.need(2)
	if b == nil {
		return 0
	}
	return guint16(b)
}

func (g *getter) u32() uint32 {
	b := g.need(4)
	if b == nil {
		return 0
	}
	return guint32(b)
}

func (g *getter) u64() uint64 {
	b := g.need(8)
	if b == nil {
		return 0
	}
	return guint64(b)
}

func (g *getter) str() string {
	n := g.u16()
	if g.err != nil {
		return ""
	}
	if int(n) > MaxFilenameLen {
		g.err = ErrLongString
		return ""
	}
	b := g.need(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

func (g *getter) qid() Qid {
	return Qid{
		Type:    QidType(g.u8()),
		Version: g.u32(),
		Path:    g.u64(),
	}
}

func (g *getter) rest() []byte {
	if g.err != nil {
		return nil
	}
	b := g.buf[g.off:]
	g.off = len(g.buf)
	return b
}
