package radio

import (
	"strconv"
	"strings"
	"sync"

	"sbitx9p/internal/filetable"
)

// fieldRange is the (min, max, step) triple backing a RoleFieldMeta
// node, when the field declares one.
type fieldRange struct {
	min, max, step int
}

type consoleLine struct {
	n    uint32 // global, monotonic append order -- the "data_index" unit
	sem  filetable.Semantic
	text string
}

// MemHost is a self-contained, in-memory Host implementation. It
// exists so the server is runnable and testable without the real
// sBitx DSP/UI process behind it: cmd/sbitx9pd wires it up as the
// default backend, and internal/nine's tests drive it directly.
type MemHost struct {
	mu sync.Mutex

	owner string

	fields   map[string]string
	ranges   map[string]fieldRange
	choices  map[string]string
	spectrum []byte

	lines    []consoleLine
	lastTime uint32
	now      uint32

	onChange func(key, old, new string)
}

// NewMemHost builds a MemHost with sensible defaults for every field
// named in the static tree. The console starts empty; lines appear only
// through WriteConsole or FT8Transmit.
func NewMemHost(owner string) *MemHost {
	h := &MemHost{
		owner:   owner,
		fields:  make(map[string]string),
		ranges:  make(map[string]fieldRange),
		choices: make(map[string]string),
		now:     1,
	}
	h.fields["#mycallsign"] = "N0CALL"
	h.fields["#mygrid"] = "AA00aa"
	h.fields["#battery_voltage"] = "13.8"
	h.fields["#smeter"] = "S3"
	h.fields["#spectrum_span"] = "25000"
	h.choices["#spectrum_span"] = "6000/12500/25000/50000"

	h.fields["r1:freq"] = "14074000"
	h.ranges["r1:freq"] = fieldRange{min: 0, max: 30000000, step: 1}
	h.fields["r1:gain"] = "50"
	h.ranges["r1:gain"] = fieldRange{min: 0, max: 100, step: 1}
	h.fields["mode"] = "FT8"

	h.fields["r1:cwfreq"] = "14050000"
	h.ranges["r1:cwfreq"] = fieldRange{min: 0, max: 30000000, step: 1}
	h.fields["r1:cwgain"] = "50"
	h.ranges["r1:cwgain"] = fieldRange{min: 0, max: 100, step: 1}

	h.spectrum = make([]byte, 2048)
	return h
}

// OnChange registers the single upward callback the host invokes on
// every field mutation. Wiring code (cmd/sbitx9pd) passes the event
// engine's NotifyFieldChanged.
func (h *MemHost) OnChange(f func(key, old, new string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = f
}

func (h *MemHost) Owner() string { return h.owner }

func (h *MemHost) Now() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now++
	return h.now
}

// --- FieldStore ---

func (h *MemHost) GetFieldValue(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fields[key]
}

func (h *MemHost) SetField(key, value string) {
	h.mu.Lock()
	old := h.fields[key]
	h.fields[key] = value
	cb := h.onChange
	h.mu.Unlock()
	if cb != nil {
		cb(key, old, value)
	}
}

func (h *MemHost) GetFieldMeta(key string) (min, max, step int, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.ranges[key]
	return r.min, r.max, r.step, ok
}

func (h *MemHost) SetFieldStep(key string, step int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.ranges[key]
	if !ok {
		return false
	}
	r.step = step
	h.ranges[key] = r
	return true
}

func (h *MemHost) GetFieldSelections(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.choices[key]
}

// --- Console ---

// WriteConsole appends one styled line, the entry point external
// threads use to report RX/TX activity. It is exported for use by the
// host process and by tests simulating incoming traffic.
func (h *MemHost) WriteConsole(sem filetable.Semantic, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := uint32(len(h.lines)) + 1
	h.lines = append(h.lines, consoleLine{n: n, sem: sem, text: text})
	h.now++
	h.lastTime = h.now
}

func (h *MemHost) filtered(filter filetable.Semantic, snapshot int64) []consoleLine {
	bound := len(h.lines)
	if snapshot >= 0 && int(snapshot) < bound {
		bound = int(snapshot)
	}
	var out []consoleLine
	for _, l := range h.lines[:bound] {
		if filter == filetable.SemNone || l.sem == filter {
			out = append(out, l)
		}
	}
	return out
}

func concatLines(lines []consoleLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

func (h *MemHost) Text(filter filetable.Semantic, offset, length int, snapshot int64) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	full := concatLines(h.filtered(filter, snapshot))
	if offset >= len(full) {
		return nil
	}
	end := offset + length
	if end > len(full) {
		end = len(full)
	}
	return []byte(full[offset:end])
}

func (h *MemHost) CurrentLength(filter filetable.Semantic, snapshot int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(concatLines(h.filtered(filter, snapshot)))
}

func (h *MemHost) TextSpans(filter filetable.Semantic, offset, length int, snapshot int64) []Span {
	h.mu.Lock()
	defer h.mu.Unlock()
	lines := h.filtered(filter, snapshot)
	startIdx := offset / 8
	if startIdx >= len(lines) {
		return nil
	}
	wantCount := length / 8
	if wantCount <= 0 {
		return nil
	}
	endIdx := startIdx + wantCount
	if endIdx > len(lines) {
		endIdx = len(lines)
	}
	out := make([]Span, 0, endIdx-startIdx)
	for row := startIdx; row < endIdx; row++ {
		l := lines[row]
		out = append(out, Span{
			Row:      uint32(row),
			Column:   0,
			Length:   clampLen(len(l.text)),
			Semantic: uint8(l.sem),
		})
	}
	return out
}

func clampLen(n int) uint8 {
	if n > 255 {
		return 255
	}
	return uint8(n)
}

func (h *MemHost) CurrentSpansLength(filter filetable.Semantic, snapshot int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.filtered(filter, snapshot))
}

func (h *MemHost) LastTime() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastTime == 0 {
		return h.now
	}
	return h.lastTime
}

func (h *MemHost) LastLine() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return uint32(len(h.lines))
}

// --- Spectrum ---

func (h *MemHost) Bins(buf []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := copy(buf, h.spectrum)
	return n
}

// --- Transmitter ---

func (h *MemHost) FT8Transmit(text string, pitch int) {
	h.WriteConsole(filetable.SemFT8TX, text+" [pitch="+strconv.Itoa(pitch)+"]")
}

func (h *MemHost) FT8Abort() {
	// nothing in-flight to cancel in the demo host
}
