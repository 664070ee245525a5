// Package wire implements the 9P2000 message framing and the packed
// Stat record layout used on the wire. It mirrors the byte-for-byte
// encoding described in the Plan 9 intro(5) man page: every message is
// size[4] type[1] tag[2] body..., little-endian throughout.
package wire

// DefaultMsize is the msize this server advertises during the version
// handshake. Reads and writes are clamped to MaxData, which leaves
// room for the envelope (size/type/tag/fid/offset/count fields).
const DefaultMsize = 8192

// MaxWElem is the maximum number of path elements accepted in a single
// Twalk request.
const MaxWElem = 16

// MaxFilenameLen bounds the length of any single path element or stat
// field, avoiding unbounded allocation from a hostile peer.
const MaxFilenameLen = 512

// NoTag is the distinguished tag used on a Tversion message, which by
// definition precedes any tag negotiation.
const NoTag uint16 = 0xFFFF

// NoFid is the distinguished fid value meaning "no fid", used in the
// afid field of Tattach when no authentication is required.
const NoFid uint32 = 0xFFFFFFFF

// Open/create mode bits, the low bits of Topen.Mode/Tcreate.Mode.
// OTRUNC and ORCLOSE may be OR'd on top; mask with 3 to get the base
// access mode.
const (
	OREAD  uint8 = 0
	OWRITE uint8 = 1
	ORDWR  uint8 = 2
	OEXEC  uint8 = 3
	OTRUNC uint8 = 0x10
)

// headerLen is size[4]+type[1]+tag[2].
const headerLen = 7

// MaxData returns the largest read/write payload allowed for a given
// negotiated msize: the envelope for Rread/Twrite is tag[2] fid[4]
// offset[8] count[4] (Twrite) or tag[2] count[4] (Rread), plus the
// 4+1 size/type header; 24 bytes is a safe clamp that covers both.
func MaxData(msize uint32) uint32 {
	const envelope = 24
	if msize <= envelope {
		return 0
	}
	return msize - envelope
}
