package radio

import (
	"testing"

	"sbitx9p/internal/filetable"
)

func TestFieldStoreRoundTrip(t *testing.T) {
	h := NewMemHost("tester")
	if got := h.GetFieldValue("#mycallsign"); got != "N0CALL" {
		t.Fatalf("default callsign = %q", got)
	}
	h.SetField("#mycallsign", "W1AW")
	if got := h.GetFieldValue("#mycallsign"); got != "W1AW" {
		t.Fatalf("got %q after SetField", got)
	}
}

func TestOnChangeFiresOnEverySetField(t *testing.T) {
	h := NewMemHost("tester")
	var calls int
	h.OnChange(func(key, old, new string) {
		calls++
	})
	h.SetField("r1:freq", "14074000")
	h.SetField("r1:gain", "75")
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestReadFieldEOF(t *testing.T) {
	h := NewMemHost("tester")
	val := h.GetFieldValue("#mycallsign")
	if got := ReadField(h, "#mycallsign", len(val), 10); got != nil {
		t.Errorf("ReadField past EOF = %q, want nil", got)
	}
	if got := string(ReadField(h, "#mycallsign", 0, 2)); got != val[:2] {
		t.Errorf("ReadField(0,2) = %q, want %q", got, val[:2])
	}
}

func TestWriteFieldTrimsAndReportsFullCount(t *testing.T) {
	h := NewMemHost("tester")
	n := &filetable.Node{WriteKey: "#mygrid"}
	payload := []byte("  AA00aa  \n")
	count := WriteField(h, n, payload, false)
	if count != len(payload) {
		t.Errorf("WriteField count = %d, want %d (untrimmed length)", count, len(payload))
	}
	if got := h.GetFieldValue("#mygrid"); got != "AA00aa" {
		t.Errorf("stored value = %q, want trimmed", got)
	}
}

func TestWriteFieldStepUpdatesRangeNotValue(t *testing.T) {
	h := NewMemHost("tester")
	before := h.GetFieldValue("r1:freq")

	count, ok := WriteFieldStep(h, "r1:freq", []byte("10\n"))
	if !ok {
		t.Fatal("WriteFieldStep failed on a field with a declared range")
	}
	if count != len("10\n") {
		t.Errorf("count = %d, want %d (untrimmed length)", count, len("10\n"))
	}

	if got := h.GetFieldValue("r1:freq"); got != before {
		t.Errorf("frequency value changed to %q after a step write, want unchanged %q", got, before)
	}
	_, _, step, ok := h.GetFieldMeta("r1:freq")
	if !ok || step != 10 {
		t.Errorf("GetFieldMeta step = %d, ok=%v, want 10, true", step, ok)
	}
}

func TestWriteFieldStepRejectsNonNumericAndUnknownKey(t *testing.T) {
	h := NewMemHost("tester")
	if _, ok := WriteFieldStep(h, "r1:freq", []byte("not a number")); ok {
		t.Error("WriteFieldStep succeeded on a non-numeric payload")
	}
	if _, ok := WriteFieldStep(h, "no-such-key", []byte("10")); ok {
		t.Error("WriteFieldStep succeeded on a key with no declared range")
	}
}

func TestWriteFieldFT8ModeKludge(t *testing.T) {
	h := NewMemHost("tester")
	h.SetField("mode", "SSB")
	n := &filetable.Node{WriteKey: "r1:freq"}
	WriteField(h, n, []byte("7074000"), true)
	if got := h.GetFieldValue("mode"); got != "FT8" {
		t.Errorf("mode = %q after FT8 frequency write, want FT8", got)
	}
}

func TestConsoleTextFilterAndSnapshot(t *testing.T) {
	h := NewMemHost("tester")
	h.WriteConsole(filetable.SemFT8RX, "CQ DX DE N0CALL")
	h.WriteConsole(filetable.SemFT8TX, "73")
	h.WriteConsole(filetable.SemFT8RX, "second rx line")

	all := ReadText(h, filetable.SemNone, 0, 1000, NoSnapshot)
	if len(all) == 0 {
		t.Fatal("expected unfiltered text to include all lines")
	}

	rxOnly := string(ReadText(h, filetable.SemFT8RX, 0, 1000, NoSnapshot))
	if rxOnly != "CQ DX DE N0CALL\nsecond rx line\n" {
		t.Errorf("filtered text = %q", rxOnly)
	}

	// a snapshot taken after the first line should not see later lines.
	snap := int64(1)
	snapped := string(ReadText(h, filetable.SemFT8RX, 0, 1000, snap))
	if snapped != "CQ DX DE N0CALL\n" {
		t.Errorf("snapshot text = %q, want just the first rx line", snapped)
	}
}

func TestConsoleSpansLengthMatchesSpans(t *testing.T) {
	h := NewMemHost("tester")
	h.WriteConsole(filetable.SemFT8RX, "one")
	h.WriteConsole(filetable.SemFT8RX, "two")

	spans := ReadSpans(h, filetable.SemFT8RX, 0, 1000, NoSnapshot)
	statLen := StatSpansLength(h, filetable.SemFT8RX, NoSnapshot)
	if len(spans) != statLen {
		t.Errorf("len(ReadSpans) = %d, StatSpansLength = %d", len(spans), statLen)
	}
	if len(spans) != 16 {
		t.Errorf("expected 2 spans * 8 bytes = 16, got %d", len(spans))
	}
}

func TestSpectrumBins(t *testing.T) {
	h := NewMemHost("tester")
	buf := make([]byte, 10)
	n := h.Bins(buf)
	if n != 10 {
		t.Errorf("Bins wrote %d bytes, want 10", n)
	}
}

func TestTransmitterAbortWhenEmpty(t *testing.T) {
	h := NewMemHost("tester")
	before := h.LastLine()
	h.FT8Abort() // must not append anything or panic
	if h.LastLine() != before {
		t.Error("FT8Abort should not append a console line")
	}
	h.FT8Transmit("CQ", 1500)
	if h.LastLine() != before+1 {
		t.Error("FT8Transmit should append a console line")
	}
}
