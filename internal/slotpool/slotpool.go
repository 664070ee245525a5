// Package slotpool hands out bounded integer slot numbers with a
// lock-free-on-the-fast-path, contiguous-range-plus-reuse-list design.
// It backs the server-wide open-FID and attached-client limits: on
// overflow, Get's second return value is false and the caller refuses
// the allocating operation. The per-client pending change cap is not
// kept here; internal/events checks its queue length directly.
package slotpool

import (
	"sort"
	"sync"
	"sync/atomic"
)

type uint32slice []uint32

func (s uint32slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint32slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s uint32slice) Len() int           { return len(s) }

// Pool hands out slot numbers in [0, ceiling) and reclaims them on
// Free. A freed slot that isn't the most recently allocated one sits
// in a sorted "clunked" list until the
// slots above it are freed too -- simple and lock-free on the fast
// path (Get never takes the mutex), at the cost of a pool that can
// fill up prematurely under pathological free patterns. The zero
// value is not usable; use New.
type Pool struct {
	ceiling uint32
	next    uint32

	mu      sync.Mutex
	clunked []uint32
}

// New returns a Pool that will hand out at most ceiling distinct slots
// at any one time.
func New(ceiling uint32) *Pool {
	return &Pool{ceiling: ceiling}
}

// Get retrieves a free slot number, guaranteed less than the pool's
// ceiling. If the pool is full, ok is false and id is meaningless.
func (p *Pool) Get() (id uint32, ok bool) {
	for {
		next := atomic.LoadUint32(&p.next)
		if next >= p.ceiling {
			return 0, false
		}
		if atomic.CompareAndSwapUint32(&p.next, next, next+1) {
			return next, true
		}
	}
}

// Free releases a slot, making it available to a future Get. Free must
// only be called once per value returned by Get.
func (p *Pool) Free(old uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !atomic.CompareAndSwapUint32(&p.next, old+1, old) {
		p.clunked = append(p.clunked, old)
		sort.Sort(uint32slice(p.clunked))
	}
	for i := len(p.clunked); i > 0; i-- {
		if atomic.CompareAndSwapUint32(&p.next, p.clunked[i-1]+1, p.clunked[i-1]) {
			p.clunked = p.clunked[:len(p.clunked)-1]
		} else {
			break
		}
	}
}

// InUse reports how many slots are currently allocated, for callers
// that want a live count rather than just an allocate/refuse decision
// (internal/fids exposes it for tests and diagnostics).
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(atomic.LoadUint32(&p.next)) - len(p.clunked)
}
