// Package radio adapts the file table's static Role tags onto the
// live, mutable radio state: the keyed field store, the styled
// console, and the spectrum snapshot function the host process
// provides. Everything in this package is synchronous -- no handler
// here may block, since the server loop that calls it has nothing
// else to do while waiting.
package radio

import "sbitx9p/internal/filetable"

// FieldStore is the keyed value store backing every RoleField,
// RoleFieldMeta, and RoleFieldChoices node.
type FieldStore interface {
	GetFieldValue(key string) string
	SetField(key, value string)
	GetFieldMeta(key string) (min, max, step int, ok bool)
	GetFieldSelections(key string) string // "/"-separated choice list
	// SetFieldStep updates the tuning-step component of key's range,
	// leaving the field's own value untouched. Returns false if key has
	// no declared range.
	SetFieldStep(key string, step int) bool
}

// Span is a styled substring within the console: (row, column, length,
// semantic), packed as a 64-bit record on the wire by Pack (ReadSpans
// packs each span Console.TextSpans returns).
type Span struct {
	Row      uint32
	Column   uint16
	Length   uint8
	Semantic uint8
}

// Pack serializes a Span into its 8-byte wire form: row[4] column[2]
// length[1] semantic[1], little-endian.
func (s Span) Pack() [8]byte {
	var b [8]byte
	b[0] = byte(s.Row)
	b[1] = byte(s.Row >> 8)
	b[2] = byte(s.Row >> 16)
	b[3] = byte(s.Row >> 24)
	b[4] = byte(s.Column)
	b[5] = byte(s.Column >> 8)
	b[6] = s.Length
	b[7] = s.Semantic
	return b
}

// Console is the styled, append-only console backing every
// RoleTextView and RoleSpansView node.
type Console interface {
	// Text returns up to len bytes of the filter's concatenated line
	// content, starting at offset into that filtered byte stream. If
	// snapshot >= 0, the view is frozen at that line number (a
	// "data_index" snapshot transaction); snapshot < 0 means "current
	// live tail".
	Text(filter filetable.Semantic, offset, length int, snapshot int64) []byte

	// TextSpans returns the span records referencing the same filtered
	// byte stream as Text, each covering 8 bytes on the wire.
	TextSpans(filter filetable.Semantic, offset, length int, snapshot int64) []Span

	// CurrentLength is the byte length Text would produce from offset
	// 0 to EOF, used for stat.length.
	CurrentLength(filter filetable.Semantic, snapshot int64) int

	// CurrentSpansLength is the number of spans TextSpans would
	// produce from offset 0 to EOF; StatSpansLength multiplies it by 8
	// for stat.length.
	CurrentSpansLength(filter filetable.Semantic, snapshot int64) int

	// LastTime is the timestamp of the most recently appended line,
	// across all filters -- the mtime every text/spans file reports,
	// fed through the mtime propagator.
	LastTime() uint32

	// LastLine is a monotonically increasing line counter, the
	// "data_index" snapshot anchor.
	LastLine() uint32
}

// Spectrum fills a buffer with the current waterfall column.
type Spectrum interface {
	// Bins fills buf (which the caller sizes) with up to len(buf)
	// bytes of the current 8-bit waterfall snapshot and returns the
	// number of bytes written.
	Bins(buf []byte) int
}

// Transmitter is the FT8 modem's narrow transmit interface: initiate
// a transmission or abort one in progress.
type Transmitter interface {
	FT8Transmit(text string, pitch int)
	FT8Abort()
}

// Host bundles every external capability the core consumes. A single
// implementation backs the whole server; internal/radio/memhost.go is
// an in-memory demo implementation used by cmd/sbitx9pd and by tests.
type Host interface {
	FieldStore
	Console
	Spectrum
	Transmitter
	// Owner is the process owner name returned as uid/gid/muid on every
	// Stat.
	Owner() string
	// Now returns the current time, used for atime stamps. MemHost
	// returns a counter that advances on each call and each console
	// append, not wall-clock seconds.
	Now() uint32
}
