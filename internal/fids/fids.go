// Package fids implements the FID registry: server-wide bookkeeping
// for every client-chosen FID. A FID is identified by the pair
// (connection, fid-number) since fid numbers are chosen independently
// by each client connection; the open-FID cap is enforced globally via
// a single shared slotpool.
package fids

import (
	"sync"

	"sbitx9p/internal/filetable"
	"sbitx9p/internal/slotpool"
)

// MaxOpenFDs is the server-wide FID capacity.
const MaxOpenFDs = 256

// Aux is the per-FID auxiliary record: the node it's walked to, a byte
// offset or directory cursor, a snapshot data_index, and the owning
// client.
type Aux struct {
	Node      *filetable.Node
	Offset    uint64
	DataIndex int64 // -1 means "no snapshot"
	ClientID  uint64
}

type key struct {
	conn uint64
	fid  uint32
}

// Registry is the single, server-wide FID table.
type Registry struct {
	pool *slotpool.Pool

	mu      sync.Mutex
	entries map[key]*Aux
	slots   map[key]uint32 // fid -> allocated pool slot, freed together
}

// NewRegistry builds an empty Registry capped at MaxOpenFDs live FIDs.
func NewRegistry() *Registry {
	return &Registry{
		pool:    slotpool.New(MaxOpenFDs),
		entries: make(map[key]*Aux),
		slots:   make(map[key]uint32),
	}
}

// Alloc associates fid (on connection connID) with node, owned by
// clientID. If fid is already associated with something on this
// connection, that prior association is replaced in place without
// consuming a new pool slot (re-walking an existing fid). Returns
// ok=false if the registry is at MaxOpenFDs and fid is new.
func (r *Registry) Alloc(connID uint64, fid uint32, node *filetable.Node, clientID uint64) (*Aux, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{conn: connID, fid: fid}
	if _, exists := r.entries[k]; !exists {
		slot, ok := r.pool.Get()
		if !ok {
			return nil, false
		}
		r.slots[k] = slot
	}
	aux := &Aux{Node: node, DataIndex: -1, ClientID: clientID}
	r.entries[k] = aux
	return aux, true
}

// Lookup finds the Aux for (connID, fid), if any.
func (r *Registry) Lookup(connID uint64, fid uint32) (*Aux, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.entries[key{conn: connID, fid: fid}]
	return a, ok
}

// Free releases fid, as a clunk does. It both drops the node
// association and returns the pool slot, since nothing in this design
// needs the stale record to linger.
func (r *Registry) Free(connID uint64, fid uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{conn: connID, fid: fid}
	if _, ok := r.entries[k]; !ok {
		return false
	}
	delete(r.entries, k)
	if slot, ok := r.slots[k]; ok {
		r.pool.Free(slot)
		delete(r.slots, k)
	}
	return true
}

// FreeConn drops every FID owned by connID, e.g. on connection loss.
func (r *Registry) FreeConn(connID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.entries {
		if k.conn == connID {
			delete(r.entries, k)
			if slot, ok := r.slots[k]; ok {
				r.pool.Free(slot)
				delete(r.slots, k)
			}
		}
	}
}

// FindSpansAux scans every open FID owned by clientID for one parked
// on a RoleSpansView node, letting a freshly opened "received" file
// adopt an already-open spans file's snapshot. Iteration
// order over a Go map is unspecified, but at most one spans FID is
// expected open per client at a time so this does not change
// observable behavior.
func (r *Registry) FindSpansAux(clientID uint64) (*Aux, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.entries {
		if a.ClientID == clientID && a.Node != nil && a.Node.Role == filetable.RoleSpansView {
			return a, true
		}
	}
	return nil, false
}

// InUse reports the number of currently allocated FIDs, for tests and
// diagnostics.
func (r *Registry) InUse() int {
	return r.pool.InUse()
}
