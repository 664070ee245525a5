package wire

// Stat is the classic Plan 9 packed metadata record (intro(5)):
// size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4] length[8]
// name[s] uid[s] gid[s] muid[s]. The size[2] field is the length of
// everything that follows it, and is recomputed by Pack.
type Stat struct {
	Kind   uint16 // implementation-specific; unused here, always 0
	Dev    uint32 // unused here, always 0
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string
}

// Pack serializes s into its wire form, including the leading size[2].
func (s Stat) Pack() []byte {
	p := newPutter(64 + len(s.Name) + len(s.Uid) + len(s.Gid) + len(s.Muid))
	p.u16(0) // size placeholder
	p.u16(s.Kind)
	p.u32(s.Dev)
	p.qid(s.Qid)
	p.u32(s.Mode)
	p.u32(s.Atime)
	p.u32(s.Mtime)
	p.u64(s.Length)
	p.str(s.Name)
	p.str(s.Uid)
	p.str(s.Gid)
	p.str(s.Muid)

	buf := p.buf
	size := uint16(len(buf) - 2)
	buf[0] = byte(size)
	buf[1] = byte(size >> 8)
	return buf
}

// UnpackStat parses a single packed Stat record, including its
// leading size[2] prefix, returning the number of bytes consumed.
func UnpackStat(buf []byte) (Stat, int, error) {
	g := newGetter(buf)
	size := g.u16()
	if g.err != nil {
		return Stat{}, 0, g.err
	}
	if int(size)+2 > len(buf) {
		return Stat{}, 0, ErrShortMessage
	}
	g = newGetter(buf[2 : 2+int(size)])
	var s Stat
	s.Kind = g.u16()
	s.Dev = g.u32()
	s.Qid = g.qid()
	s.Mode = g.u32()
	s.Atime = g.u32()
	s.Mtime = g.u32()
	s.Length = g.u64()
	s.Name = g.str()
	s.Uid = g.str()
	s.Gid = g.str()
	s.Muid = g.str()
	if g.err != nil {
		return Stat{}, 0, g.err
	}
	return s, 2 + int(size), nil
}

// Sizeof returns the number of bytes s.Pack() would produce, without
// allocating. Directory reads in internal/nine measure the packed
// record itself instead.
func Sizeof(s Stat) int {
	// size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4] length[8]
	const fixed = 2 + 2 + 4 + 13 + 4 + 4 + 4 + 8
	return fixed + 2 + len(s.Name) + 2 + len(s.Uid) + 2 + len(s.Gid) + 2 + len(s.Muid)
}
