package wire

import "encoding/binary"

// Message type bytes, following the classic 9P2000 numbering: T
// messages are even, the matching R reply is T+1.
const (
	MsgTversion uint8 = 100 + iota
	MsgRversion
	MsgTauth
	MsgRauth
	MsgTattach
	MsgRattach
	msgTerror // illegal on the wire; Rerror is the only error message
	MsgRerror
	MsgTflush
	MsgRflush
	MsgTwalk
	MsgRwalk
	MsgTopen
	MsgRopen
	MsgTcreate
	MsgRcreate
	MsgTread
	MsgRread
	MsgTwrite
	MsgRwrite
	MsgTclunk
	MsgRclunk
	MsgTremove
	MsgRremove
	MsgTstat
	MsgRstat
	MsgTwstat
	MsgRwstat
)

// Msg is implemented by every decoded 9P request and reply.
type Msg interface {
	Tag() uint16
}

type baseMsg struct {
	tag uint16
}

func (m baseMsg) Tag() uint16 { return m.tag }

// Requests (T-messages).
type (
	TVersion struct {
		baseMsg
		Msize   uint32
		Version string
	}
	TAttach struct {
		baseMsg
		Fid   uint32
		Afid  uint32
		Uname string
		Aname string
	}
	TWalk struct {
		baseMsg
		Fid    uint32
		NewFid uint32
		Wname  []string
	}
	TOpen struct {
		baseMsg
		Fid  uint32
		Mode uint8
	}
	TCreate struct {
		baseMsg
		Fid  uint32
		Name string
		Perm uint32
		Mode uint8
	}
	TRead struct {
		baseMsg
		Fid    uint32
		Offset uint64
		Count  uint32
	}
	TWrite struct {
		baseMsg
		Fid    uint32
		Offset uint64
		Data   []byte
	}
	TClunk struct {
		baseMsg
		Fid uint32
	}
	TRemove struct {
		baseMsg
		Fid uint32
	}
	TStat struct {
		baseMsg
		Fid uint32
	}
	TFlush struct {
		baseMsg
		OldTag uint16
	}
)

// Replies (R-messages).
type (
	RVersion struct {
		baseMsg
		Msize   uint32
		Version string
	}
	RAttach struct {
		baseMsg
		Qid Qid
	}
	RWalk struct {
		baseMsg
		Wqid []Qid
	}
	ROpen struct {
		baseMsg
		Qid    Qid
		IoUnit uint32
	}
	RCreate struct {
		baseMsg
		Qid    Qid
		IoUnit uint32
	}
	RRead struct {
		baseMsg
		Data []byte
	}
	RWrite struct {
		baseMsg
		Count uint32
	}
	RClunk struct {
		baseMsg
	}
	RRemove struct {
		baseMsg
	}
	RStat struct {
		baseMsg
		Stat Stat
	}
	RFlush struct {
		baseMsg
	}
	RError struct {
		baseMsg
		Ename string
	}
)

func tag(t uint16) baseMsg { return baseMsg{tag: t} }

// NewRerror builds an Rerror reply, the uniform failure reply for
// every request type.
func NewRerror(t uint16, ename string) RError {
	return RError{baseMsg: tag(t), Ename: ename}
}

// Request constructors. baseMsg's tag field is unexported, so a
// package building requests to send to a server (a test client, for
// instance) needs these rather than struct literals.
func NewTVersion(t uint16, msize uint32, version string) TVersion {
	return TVersion{baseMsg: tag(t), Msize: msize, Version: version}
}

func NewTAttach(t uint16, fid, afid uint32, uname, aname string) TAttach {
	return TAttach{baseMsg: tag(t), Fid: fid, Afid: afid, Uname: uname, Aname: aname}
}

func NewTWalk(t uint16, fid, newfid uint32, wname []string) TWalk {
	return TWalk{baseMsg: tag(t), Fid: fid, NewFid: newfid, Wname: wname}
}

func NewTOpen(t uint16, fid uint32, mode uint8) TOpen {
	return TOpen{baseMsg: tag(t), Fid: fid, Mode: mode}
}

func NewTRead(t uint16, fid uint32, offset uint64, count uint32) TRead {
	return TRead{baseMsg: tag(t), Fid: fid, Offset: offset, Count: count}
}

func NewTWrite(t uint16, fid uint32, offset uint64, data []byte) TWrite {
	return TWrite{baseMsg: tag(t), Fid: fid, Offset: offset, Data: data}
}

func NewTClunk(t uint16, fid uint32) TClunk {
	return TClunk{baseMsg: tag(t), Fid: fid}
}

func NewTStat(t uint16, fid uint32) TStat {
	return TStat{baseMsg: tag(t), Fid: fid}
}

func NewTFlush(t uint16, oldTag uint16) TFlush {
	return TFlush{baseMsg: tag(t), OldTag: oldTag}
}

// RequestType maps a request Msg to its wire message type byte, for a
// caller that needs to pass it to Encode.
func RequestType(m Msg) uint8 {
	switch m.(type) {
	case TVersion:
		return MsgTversion
	case TAttach:
		return MsgTattach
	case TWalk:
		return MsgTwalk
	case TOpen:
		return MsgTopen
	case TCreate:
		return MsgTcreate
	case TRead:
		return MsgTread
	case TWrite:
		return MsgTwrite
	case TClunk:
		return MsgTclunk
	case TRemove:
		return MsgTremove
	case TStat:
		return MsgTstat
	case TFlush:
		return MsgTflush
	default:
		panic("wire: RequestType called with unrecognized message type")
	}
}

// Decode parses the body of a single 9P message (the tag and
// everything after it, i.e. the frame minus size[4] and type[1]) given
// its type byte. The caller is responsible for framing (reading size[4]
// and exactly size-4 following bytes) -- see Reader in decoder.go.
func Decode(mtype uint8, body []byte) (Msg, error) {
	g := newGetter(body)
	t := g.u16()

	var m Msg
	switch mtype {
	case MsgTversion:
		msize := g.u32()
		version := g.str()
		m = TVersion{baseMsg: tag(t), Msize: msize, Version: version}
	case MsgTattach:
		fid := g.u32()
		afid := g.u32()
		uname := g.str()
		aname := g.str()
		m = TAttach{baseMsg: tag(t), Fid: fid, Afid: afid, Uname: uname, Aname: aname}
	case MsgTwalk:
		fid := g.u32()
		newfid := g.u32()
		n := g.u16()
		if int(n) > MaxWElem {
			return nil, ErrLongString
		}
		wname := make([]string, 0, n)
		for i := uint16(0); i < n; i++ {
			wname = append(wname, g.str())
		}
		m = TWalk{baseMsg: tag(t), Fid: fid, NewFid: newfid, Wname: wname}
	case MsgTopen:
		fid := g.u32()
		mode := g.u8()
		m = TOpen{baseMsg: tag(t), Fid: fid, Mode: mode}
	case MsgTcreate:
		fid := g.u32()
		name := g.str()
		perm := g.u32()
		mode := g.u8()
		m = TCreate{baseMsg: tag(t), Fid: fid, Name: name, Perm: perm, Mode: mode}
	case MsgTread:
		fid := g.u32()
		offset := g.u64()
		count := g.u32()
		m = TRead{baseMsg: tag(t), Fid: fid, Offset: offset, Count: count}
	case MsgTwrite:
		fid := g.u32()
		offset := g.u64()
		count := g.u32()
		data := g.need(int(count))
		cp := make([]byte, len(data))
		copy(cp, data)
		m = TWrite{baseMsg: tag(t), Fid: fid, Offset: offset, Data: cp}
	case MsgTclunk:
		m = TClunk{baseMsg: tag(t), Fid: g.u32()}
	case MsgTremove:
		m = TRemove{baseMsg: tag(t), Fid: g.u32()}
	case MsgTstat:
		m = TStat{baseMsg: tag(t), Fid: g.u32()}
	case MsgTflush:
		m = TFlush{baseMsg: tag(t), OldTag: g.u16()}
	default:
		return nil, ErrUnknownType
	}
	if g.err != nil {
		return nil, g.err
	}
	return m, nil
}

// DecodeReply parses the body of a single reply message, the
// counterpart to Decode for a caller acting as a client.
func DecodeReply(mtype uint8, body []byte) (Msg, error) {
	g := newGetter(body)
	t := g.u16()

	var m Msg
	switch mtype {
	case MsgRversion:
		msize := g.u32()
		version := g.str()
		m = RVersion{baseMsg: tag(t), Msize: msize, Version: version}
	case MsgRattach:
		m = RAttach{baseMsg: tag(t), Qid: g.qid()}
	case MsgRwalk:
		n := g.u16()
		wqid := make([]Qid, 0, n)
		for i := uint16(0); i < n; i++ {
			wqid = append(wqid, g.qid())
		}
		m = RWalk{baseMsg: tag(t), Wqid: wqid}
	case MsgRopen:
		qid := g.qid()
		iounit := g.u32()
		m = ROpen{baseMsg: tag(t), Qid: qid, IoUnit: iounit}
	case MsgRcreate:
		qid := g.qid()
		iounit := g.u32()
		m = RCreate{baseMsg: tag(t), Qid: qid, IoUnit: iounit}
	case MsgRread:
		n := g.u32()
		data := g.need(int(n))
		cp := make([]byte, len(data))
		copy(cp, data)
		m = RRead{baseMsg: tag(t), Data: cp}
	case MsgRwrite:
		m = RWrite{baseMsg: tag(t), Count: g.u32()}
	case MsgRclunk:
		m = RClunk{baseMsg: tag(t)}
	case MsgRremove:
		m = RRemove{baseMsg: tag(t)}
	case MsgRstat:
		n := g.u16()
		raw := g.need(int(n))
		st, _, err := UnpackStat(raw)
		if err != nil {
			return nil, err
		}
		m = RStat{baseMsg: tag(t), Stat: st}
	case MsgRflush:
		m = RFlush{baseMsg: tag(t)}
	case MsgRerror:
		m = RError{baseMsg: tag(t), Ename: g.str()}
	default:
		return nil, ErrUnknownType
	}
	if g.err != nil {
		return nil, g.err
	}
	return m, nil
}

// Encode serializes a request or reply into a full frame, including the
// size[4] type[1] tag[2] header.
func Encode(mtype uint8, m Msg) []byte {
	p := newPutter(64)
	p.u32(0) // size placeholder
	p.u8(mtype)
	p.u16(m.Tag())

	switch v := m.(type) {
	case TVersion:
		p.u32(v.Msize).str(v.Version)
	case TAttach:
		p.u32(v.Fid).u32(v.Afid).str(v.Uname).str(v.Aname)
	case TWalk:
		p.u32(v.Fid).u32(v.NewFid).u16(uint16(len(v.Wname)))
		for _, name := range v.Wname {
			p.str(name)
		}
	case TOpen:
		p.u32(v.Fid).u8(v.Mode)
	case TCreate:
		p.u32(v.Fid).str(v.Name).u32(v.Perm).u8(v.Mode)
	case TRead:
		p.u32(v.Fid).u64(v.Offset).u32(v.Count)
	case TWrite:
		p.u32(v.Fid).u64(v.Offset).u32(uint32(len(v.Data))).bytes(v.Data)
	case TClunk:
		p.u32(v.Fid)
	case TRemove:
		p.u32(v.Fid)
	case TStat:
		p.u32(v.Fid)
	case TFlush:
		p.u16(v.OldTag)
	case RVersion:
		p.u32(v.Msize).str(v.Version)
	case RAttach:
		p.qid(v.Qid)
	case RWalk:
		p.u16(uint16(len(v.Wqid)))
		for _, q := range v.Wqid {
			p.qid(q)
		}
	case ROpen:
		p.qid(v.Qid).u32(v.IoUnit)
	case RCreate:
		p.qid(v.Qid).u32(v.IoUnit)
	case RRead:
		p.u32(uint32(len(v.Data))).bytes(v.Data)
	case RWrite:
		p.u32(v.Count)
	case RClunk:
		// empty body
	case RRemove:
		// empty body
	case RStat:
		raw := v.Stat.Pack()
		p.u16(uint16(len(raw))).bytes(raw)
	case RFlush:
		// empty body
	case RError:
		p.str(v.Ename)
	default:
		panic("wire: Encode called with unrecognized message type")
	}

	buf := p.buf
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(buf)))
	return buf
}
