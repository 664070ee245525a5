package netutil

import "testing"

func TestChooseAddressReturnsIPv4OrError(t *testing.T) {
	addr, err := ChooseAddress()
	if err != nil {
		// No non-loopback IPv4 interface in this environment; that's a
		// legitimate outcome, not a bug in ChooseAddress.
		t.Skipf("ChooseAddress: %v", err)
	}
	if addr == "" {
		t.Error("ChooseAddress returned no error but an empty address")
	}
}

func TestListenWithExplicitAddr(t *testing.T) {
	l, full, err := Listen("127.0.0.1")
	if err != nil {
		// Port9P is a privileged port; without root this is expected.
		t.Skipf("Listen: %v", err)
	}
	defer l.Close()
	if full != "127.0.0.1:564" {
		t.Errorf("Listen returned unexpected address %q, want 127.0.0.1:564", full)
	}
}
