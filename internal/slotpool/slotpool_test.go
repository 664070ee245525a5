package slotpool

import "testing"

func TestPoolFree(t *testing.T) {
	p := New(100)

	for i := 0; i < 100; i++ {
		if n, ok := p.Get(); !ok {
			t.Error("pool marked full prematurely")
			break
		} else if uint32(i) != n {
			t.Fatal("expected Get to return ids in ascending order")
		}
	}
	if _, ok := p.Get(); ok {
		t.Error("pool not full at ceiling")
	}

	for i := 0; i < 100; i++ {
		p.Free(uint32(i))
	}

	if n, ok := p.Get(); !ok {
		t.Error("pool full after freeing all ids")
	} else if n != 0 {
		t.Errorf("Get returned %d on empty pool", n)
	}
}

func TestPoolLIFOFree(t *testing.T) {
	p := New(10)
	var got []uint32
	for i := 0; i < 10; i++ {
		n, ok := p.Get()
		if !ok {
			t.Fatalf("pool marked full prematurely at %d", i)
		}
		got = append(got, n)
	}
	for i := len(got) - 1; i >= 0; i-- {
		p.Free(got[i])
	}
	if n := p.InUse(); n != 0 {
		t.Errorf("InUse() = %d, want 0 after freeing everything", n)
	}
}

func TestPoolOutOfOrderFree(t *testing.T) {
	p := New(4)
	ids := make([]uint32, 4)
	for i := range ids {
		ids[i], _ = p.Get()
	}
	// free the middle two out of order; the pool should still recover
	// full capacity once every id is freed.
	p.Free(ids[2])
	p.Free(ids[1])
	p.Free(ids[0])
	p.Free(ids[3])

	if n := p.InUse(); n != 0 {
		t.Errorf("InUse() = %d, want 0", n)
	}
	for i := 0; i < 4; i++ {
		if _, ok := p.Get(); !ok {
			t.Errorf("pool did not recover full capacity after out-of-order frees")
		}
	}
}
