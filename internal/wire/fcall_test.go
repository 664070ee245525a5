package wire

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		mtype uint8
		msg   Msg
	}{
		{"Rversion", MsgRversion, RVersion{baseMsg: tag(1), Msize: 8192, Version: "9P2000"}},
		{"Rattach", MsgRattach, RAttach{baseMsg: tag(2), Qid: Qid{Type: QTDIR, Version: 3, Path: 0}}},
		{"Rwalk", MsgRwalk, RWalk{baseMsg: tag(3), Wqid: []Qid{{Path: 1}, {Path: 2}}}},
		{"Ropen", MsgRopen, ROpen{baseMsg: tag(4), Qid: Qid{Path: 5}, IoUnit: 0}},
		{"Rread", MsgRread, RRead{baseMsg: tag(5), Data: []byte("hello")}},
		{"Rwrite", MsgRwrite, RWrite{baseMsg: tag(6), Count: 5}},
		{"Rclunk", MsgRclunk, RClunk{baseMsg: tag(7)}},
		{"Rerror", MsgRerror, NewRerror(8, "file not found")},
		{"Rflush", MsgRflush, RFlush{baseMsg: tag(9)}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded := Encode(c.mtype, c.msg)
			// size prefix should match the encoded length exactly.
			size := guint32(encoded[0:4])
			if int(size) != len(encoded) {
				t.Fatalf("size prefix %d does not match encoded length %d", size, len(encoded))
			}
			if encoded[4] != c.mtype {
				t.Fatalf("type byte = %d, want %d", encoded[4], c.mtype)
			}
			decoded, err := DecodeReply(encoded[4], encoded[5:])
			if err != nil {
				t.Fatalf("DecodeReply: %v", err)
			}
			if !reflect.DeepEqual(decoded, c.msg) {
				t.Errorf("decoded %+v, want %+v", decoded, c.msg)
			}
		})
	}
}

func TestDecodeTversion(t *testing.T) {
	p := newPutter(32)
	p.u16(NoTag).u32(8192).str("9P2000")
	m, err := Decode(MsgTversion, p.buf)
	if err != nil {
		t.Fatal(err)
	}
	tv, ok := m.(TVersion)
	if !ok {
		t.Fatalf("got %T, want TVersion", m)
	}
	if tv.Msize != 8192 || tv.Version != "9P2000" {
		t.Errorf("got %+v", tv)
	}
}

func TestDecodeTwalkTooManyElements(t *testing.T) {
	p := newPutter(64)
	p.u16(1).u32(0).u32(1).u16(MaxWElem + 1)
	for i := 0; i < MaxWElem+1; i++ {
		p.str("x")
	}
	if _, err := Decode(MsgTwalk, p.buf); err != ErrLongString {
		t.Fatalf("err = %v, want ErrLongString", err)
	}
}

func TestReaderReadMsg(t *testing.T) {
	var buf bytes.Buffer
	want := TAttach{baseMsg: tag(42), Fid: 1, Afid: NoFid, Uname: "n0call", Aname: ""}
	p := newPutter(64)
	p.u32(0).u8(MsgTattach).u16(want.tag).u32(want.Fid).u32(want.Afid).str(want.Uname).str(want.Aname)
	raw := p.buf
	binary.LittleEndian.PutUint32(raw[0:4], uint32(len(raw)))
	buf.Write(raw)

	r := NewReader(&buf, DefaultMsize)
	m, err := r.ReadMsg()
	if err != nil {
		t.Fatal(err)
	}
	got, ok := m.(TAttach)
	if !ok {
		t.Fatalf("got %T, want TAttach", m)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStatPackUnpack(t *testing.T) {
	s := Stat{
		Qid:    Qid{Type: QTFILE, Version: 1, Path: 42},
		Mode:   0644,
		Atime:  100,
		Mtime:  200,
		Length: 5,
		Name:   "frequency",
		Uid:    "sbitx",
		Gid:    "sbitx",
		Muid:   "sbitx",
	}
	raw := s.Pack()
	got, n, err := UnpackStat(raw)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(raw) {
		t.Errorf("consumed %d bytes, want %d", n, len(raw))
	}
	if got != s {
		t.Errorf("got %+v, want %+v", got, s)
	}
	if Sizeof(s) != len(raw) {
		t.Errorf("Sizeof = %d, want %d", Sizeof(s), len(raw))
	}
}
