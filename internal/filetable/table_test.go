package filetable

import "testing"

func TestNewSbitxTableStructure(t *testing.T) {
	tb := NewSbitxTable()

	root := tb.Root()
	if root == nil || root.ID != IDRoot {
		t.Fatal("Root() did not return the root node")
	}

	if n := tb.FindChild(IDRoot, "event"); n == nil || n.Role != RoleEventQueue {
		t.Error("expected /event to be a RoleEventQueue node")
	}
	if n := tb.FindChild(IDRoot, "text"); n == nil || n.Role != RoleTextView {
		t.Error("expected /text to be a RoleTextView node")
	}

	modes := tb.FindChild(IDRoot, "modes")
	if modes == nil {
		t.Fatal("expected /modes directory")
	}
	ft8 := tb.FindChild(modes.ID, "ft8")
	cw := tb.FindChild(modes.ID, "cw")
	if ft8 == nil || cw == nil {
		t.Fatal("expected /modes/ft8 and /modes/cw directories")
	}

	// the name "1" repeats under both modes/ft8 and modes/cw; FindChild
	// must disambiguate by parent, not just name.
	ft8Chan := tb.FindChild(ft8.ID, "1")
	cwChan := tb.FindChild(cw.ID, "1")
	if ft8Chan == nil || cwChan == nil {
		t.Fatal("expected channel 1 under both ft8 and cw")
	}
	if ft8Chan.ID == cwChan.ID {
		t.Error("ft8 and cw channel 1 must not share a node id")
	}

	if n := tb.FindChild(ft8Chan.ID, "send"); n == nil {
		t.Error("expected ft8 channel to have a send file")
	}
	if n := tb.FindChild(cwChan.ID, "send"); n != nil {
		t.Error("cw channel must not have a send file (no transmit side)")
	}
}

func TestTextViewsExcludesSpans(t *testing.T) {
	tb := NewSbitxTable()
	for _, n := range tb.TextViews() {
		if n.Role != RoleTextView {
			t.Errorf("TextViews() returned a non-text node %q with role %v", n.Name, n.Role)
		}
	}
}

func TestNodeTouchMonotonic(t *testing.T) {
	n := &Node{}
	if !n.Touch(5) {
		t.Fatal("first Touch(5) should advance mtime from 0")
	}
	if n.Mtime() != 5 || n.Version() != 1 {
		t.Fatalf("got mtime=%d version=%d, want 5,1", n.Mtime(), n.Version())
	}
	if n.Touch(5) {
		t.Error("Touch with an equal mtime should not advance")
	}
	if n.Touch(3) {
		t.Error("Touch with an older mtime should not advance")
	}
	if !n.Touch(9) {
		t.Fatal("Touch(9) should advance past 5")
	}
	if n.Version() != 2 {
		t.Errorf("version = %d, want 2", n.Version())
	}
}

func TestChannelGroup(t *testing.T) {
	group, role := ChannelGroup(IDFT8Channel1 + uint64(ChReceived))
	if group != IDFT8Channel1 {
		t.Errorf("group = %#x, want %#x", group, IDFT8Channel1)
	}
	if role != ChReceived {
		t.Errorf("role = %v, want ChReceived", role)
	}
}

func TestIsDirAndQidType(t *testing.T) {
	tb := NewSbitxTable()
	root := tb.Root()
	if !root.IsDir() {
		t.Error("root should be a directory")
	}
	if root.QidType()&0x80 == 0 {
		t.Error("root qid type should have the directory bit set")
	}

	freq := tb.FindChild(tb.FindChild(tb.FindChild(IDRoot, "modes").ID, "ft8").ID, "1")
	freqFile := tb.FindChild(freq.ID, "frequency")
	if freqFile == nil || freqFile.IsDir() {
		t.Error("frequency should be a plain file")
	}
}
