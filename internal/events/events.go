// Package events implements the event engine: a per-client bounded
// set of changed nodes, fed by the host's upward field-changed signal
// and drained by reads of the "event" file.
package events

import (
	"strings"
	"sync"
	"sync/atomic"

	"sbitx9p/internal/filetable"
	"sbitx9p/internal/slotpool"
)

// MaxClients and MaxEvents are the server-wide and per-client caps.
const (
	MaxClients = 64
	MaxEvents  = 256
)

// firstClientID is the base value client ids count up from. Wraparound
// is treated as impossible within a server's run and is not guarded
// against.
const firstClientID uint64 = 0xa44a000000000000

type queuedNode struct {
	id   uint64
	name string
}

type client struct {
	slot    uint32 // the slotpool slot backing MAX_CLIENTS accounting
	mu      sync.Mutex
	queued  map[uint64]bool // node id -> present in queue, for the dedupe check
	entries []queuedNode    // insertion order
	byteLen int
}

// Engine is the server-wide event engine: one per server, shared by
// every connection and client.
type Engine struct {
	table   *filetable.Table
	nextID  uint64
	pool    *slotpool.Pool

	mu      sync.RWMutex
	clients map[uint64]*client
}

// NewEngine builds an Engine that resolves field keys against table by
// reverse-scanning the file table for a matching field key.
func NewEngine(table *filetable.Table) *Engine {
	return &Engine{
		table:   table,
		nextID:  firstClientID,
		pool:    slotpool.New(MaxClients),
		clients: make(map[uint64]*client),
	}
}

// Attach registers a new client, enforcing MaxClients. ok is false if
// the server already has MaxClients attached clients.
func (e *Engine) Attach() (id uint64, ok bool) {
	slot, ok := e.pool.Get()
	if !ok {
		return 0, false
	}
	id = atomic.AddUint64(&e.nextID, 1) - 1
	e.mu.Lock()
	e.clients[id] = &client{slot: slot, queued: make(map[uint64]bool)}
	e.mu.Unlock()
	return id, true
}

// Detach removes a client's queue, called once its last FID is freed.
func (e *Engine) Detach(id uint64) {
	e.mu.Lock()
	c, existed := e.clients[id]
	delete(e.clients, id)
	e.mu.Unlock()
	if existed {
		e.pool.Free(c.slot)
	}
}

// NotifyFieldChanged is the single upward signal the host invokes on
// every field mutation. It is safe to call concurrently with any
// read/stat of any client's event file.
func (e *Engine) NotifyFieldChanged(key, old, new string) {
	e.mu.RLock()
	if len(e.clients) == 0 {
		e.mu.RUnlock()
		return
	}
	if sameUpTo64(old, new) {
		e.mu.RUnlock()
		return
	}
	node := e.resolveNode(key)
	if node == nil {
		e.mu.RUnlock()
		return
	}
	clients := make([]*client, 0, len(e.clients))
	for _, c := range e.clients {
		clients = append(clients, c)
	}
	e.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(node)
	}
}

func sameUpTo64(a, b string) bool {
	const n = 64
	if len(a) > n {
		a = a[:n]
	}
	if len(b) > n {
		b = b[:n]
	}
	return a == b
}

// resolveNode reverse-scans the file table for a RoleField node whose
// Key matches key.
func (e *Engine) resolveNode(key string) *filetable.Node {
	all := e.table.All()
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if n.Role == filetable.RoleField && n.Key == key {
			return n
		}
	}
	return nil
}

func (c *client) enqueue(node *filetable.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queued[node.ID] {
		return
	}
	if len(c.entries) >= MaxEvents {
		return // full: refuse rather than grow past the per-client cap
	}
	c.queued[node.ID] = true
	c.entries = append(c.entries, queuedNode{id: node.ID, name: node.Name})
	c.byteLen += len(node.Name) + 1
}

// StatLength returns the byte length a stat on clientID's event file
// should report: exactly what the next full Read would produce.
func (e *Engine) StatLength(clientID uint64) int {
	c := e.client(clientID)
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byteLen
}

// Read drains up to maxBytes worth of queued node names, each
// terminated by '\n', stopping before any name whose emission would
// exceed maxBytes. Consumed names are removed from the queue in FIFO
// order.
func (e *Engine) Read(clientID uint64, maxBytes int) []byte {
	c := e.client(clientID)
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	consumed := 0
	for _, e := range c.entries {
		n := len(e.name) + 1
		if b.Len()+n > maxBytes {
			break
		}
		b.WriteString(e.name)
		b.WriteByte('\n')
		consumed++
	}
	if consumed > 0 {
		for _, e := range c.entries[:consumed] {
			delete(c.queued, e.id)
		}
		c.entries = append([]queuedNode(nil), c.entries[consumed:]...)
		c.byteLen -= b.Len()
	}
	return []byte(b.String())
}

func (e *Engine) client(id uint64) *client {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clients[id]
}
