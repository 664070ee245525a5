package wire

import "fmt"

// QidType is the type of a file, the high byte of its mode word.
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append only files
	QTEXCL   QidType = 0x20 // exclusive use files
	QTAUTH   QidType = 0x08 // authentication file
	QTFILE   QidType = 0x00
)

// Mode bits, the low 24 bits of a file's permission word plus the
// directory bit shared with QidType in the high byte.
const (
	DMDIR  = 0x80000000
	DMEXCL = 0x00001000 // Plan 9 "exclusive use" bit, set on every exported node
)

// Qid is the server's identity for a file: (type, version, path).
// Two files on the same hierarchy are the same file iff their Qids
// are equal.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

func (q Qid) String() string {
	return fmt.Sprintf("(%02x %d %d)", uint8(q.Type), q.Version, q.Path)
}
