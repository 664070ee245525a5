package fids

import (
	"testing"

	"sbitx9p/internal/filetable"
)

func TestAllocLookupFree(t *testing.T) {
	r := NewRegistry()
	n := &filetable.Node{ID: 1}

	aux, ok := r.Alloc(10, 5, n, 99)
	if !ok {
		t.Fatal("Alloc failed on empty registry")
	}
	if aux.Node != n || aux.ClientID != 99 || aux.DataIndex != -1 {
		t.Errorf("unexpected aux %+v", aux)
	}

	got, ok := r.Lookup(10, 5)
	if !ok || got != aux {
		t.Fatal("Lookup did not return the allocated aux")
	}

	if !r.Free(10, 5) {
		t.Fatal("Free reported failure for a live fid")
	}
	if _, ok := r.Lookup(10, 5); ok {
		t.Error("Lookup succeeded after Free")
	}
	if r.Free(10, 5) {
		t.Error("double Free should report failure")
	}
}

func TestAllocRewalkDoesNotConsumeNewSlot(t *testing.T) {
	r := NewRegistry()
	n1 := &filetable.Node{ID: 1}
	n2 := &filetable.Node{ID: 2}

	r.Alloc(1, 1, n1, 1)
	before := r.InUse()
	r.Alloc(1, 1, n2, 1) // re-walking the same fid
	if r.InUse() != before {
		t.Errorf("InUse changed from %d to %d on a re-walk", before, r.InUse())
	}
	got, _ := r.Lookup(1, 1)
	if got.Node != n2 {
		t.Error("re-walk did not replace the fid's node")
	}
}

func TestMaxOpenFDsEnforced(t *testing.T) {
	r := NewRegistry()
	n := &filetable.Node{ID: 1}
	for i := 0; i < MaxOpenFDs; i++ {
		if _, ok := r.Alloc(1, uint32(i), n, 1); !ok {
			t.Fatalf("Alloc failed before reaching MaxOpenFDs at %d", i)
		}
	}
	if _, ok := r.Alloc(1, uint32(MaxOpenFDs), n, 1); ok {
		t.Error("Alloc succeeded past MaxOpenFDs")
	}
}

func TestFreeConnDropsOnlyThatConnection(t *testing.T) {
	r := NewRegistry()
	n := &filetable.Node{ID: 1}
	r.Alloc(1, 1, n, 1)
	r.Alloc(2, 1, n, 1)

	r.FreeConn(1)
	if _, ok := r.Lookup(1, 1); ok {
		t.Error("FreeConn(1) left a fid owned by connection 1")
	}
	if _, ok := r.Lookup(2, 1); !ok {
		t.Error("FreeConn(1) dropped a fid owned by a different connection")
	}
}

func TestFindSpansAux(t *testing.T) {
	r := NewRegistry()
	spansNode := &filetable.Node{ID: 1, Role: filetable.RoleSpansView}
	textNode := &filetable.Node{ID: 2, Role: filetable.RoleTextView}

	r.Alloc(1, 1, textNode, 77)
	if _, ok := r.FindSpansAux(77); ok {
		t.Fatal("FindSpansAux found a match before any spans fid was opened")
	}

	spansAux, _ := r.Alloc(1, 2, spansNode, 77)
	spansAux.DataIndex = 42

	got, ok := r.FindSpansAux(77)
	if !ok || got.DataIndex != 42 {
		t.Fatalf("FindSpansAux = %+v, ok=%v", got, ok)
	}
	if _, ok := r.FindSpansAux(1); ok {
		t.Error("FindSpansAux matched the wrong client id")
	}
}
