// Package filetable holds the static, compile-time description of the
// exported 9P tree. It is pure data: the logic that turns a node's
// Role into bytes on the wire lives in internal/radio and
// internal/nine, which hold the live connections to the host radio and
// dispatch by matching on a node's variant tag rather than an indirect
// call.
package filetable

import "sync/atomic"

// Semantic is the filter tag selecting which console spans are
// visible through a text or spans file. The concrete values mirror
// the underlying console's style enum; only the subset used by the
// exported tree is named here.
type Semantic uint8

const (
	SemNone Semantic = iota // unfiltered: the whole console ("text")
	SemFT8RX
	SemFT8TX
	SemCWRX
	SemCWTX
)

// Role selects which handler logic in internal/radio applies to a
// node, a tagged variant in place of per-node function pointers.
type Role int

const (
	RoleDir          Role = iota // a directory; children found by Parent scan
	RoleField                    // a plain read/write scalar field
	RoleFieldMeta                // a derived child of a field's .meta/ dir
	RoleFieldChoices             // a field's "/"-separated choice list, rendered tab-separated
	RoleTextView                 // a filtered console text view
	RoleSpansView                // the span-index sibling of a RoleTextView file
	RoleSpectrumRaw              // the raw waterfall snapshot
	RoleEventQueue               // the "event" change-notification file
)

// MetaField names the specific attribute a RoleFieldMeta node exposes.
type MetaField int

const (
	MetaNone MetaField = iota
	MetaLabel
	MetaFormat
	MetaMin
	MetaMax
	MetaStep
)

// Node is one static record in the exported tree: one per file or
// directory, created once at server start and never destroyed. The
// mutable fields (Atime, Mtime, Version) are accessed with atomics so
// concurrent stat/read calls across connections never race with the
// mtime propagator.
type Node struct {
	ID       uint64
	Name     string
	Parent   int64 // -1 for the root
	Mode     uint32
	Semantic Semantic
	Role     Role
	Meta     MetaField

	// Key is the symbolic name passed to the host field backend: a
	// field key for RoleField/RoleFieldMeta/RoleFieldChoices. On
	// RoleTextView/RoleSpansView nodes it holds the channel's console
	// key (e.g. "ft8_1"), which no handler reads; Semantic selects the
	// console filter. WriteKey is the field a write sets; the FT8
	// freq-write-also-sets-mode kludge is chosen by node id, not by key.
	Key      string
	WriteKey string

	atime   atomic.Uint32
	mtime   atomic.Uint32
	version atomic.Uint32
}

func (n *Node) Atime() uint32    { return n.atime.Load() }
func (n *Node) SetAtime(t uint32) { n.atime.Store(t) }
func (n *Node) Mtime() uint32    { return n.mtime.Load() }
func (n *Node) Version() uint32 { return n.version.Load() }

// Touch bumps mtime and version together if newMtime is newer than
// what's recorded, returning true if it did. Version is monotonically
// non-decreasing per node.
func (n *Node) Touch(newMtime uint32) bool {
	for {
		old := n.mtime.Load()
		if newMtime <= old {
			return false
		}
		if n.mtime.CompareAndSwap(old, newMtime) {
			n.version.Add(1)
			return true
		}
	}
}

// IsDir reports whether the node's mode has the directory bit set.
func (n *Node) IsDir() bool { return n.Mode&DMDIR != 0 }

// QidType is the high byte of the node's mode, used verbatim as the
// wire Qid type.
func (n *Node) QidType() uint8 { return uint8(n.Mode >> 24) }

const (
	DMDIR  = 0x80000000
	DMEXCL = 0x00001000
)

// Table is the full, ordered node list: parents always precede their
// children. FindChild and Children scan the whole list, so lookups do
// not depend on that order.
type Table struct {
	nodes []*Node
	byID  map[uint64]*Node
}

// New builds a Table from nodes, which must already be parent-before-
// child ordered.
func New(nodes []*Node) *Table {
	t := &Table{nodes: nodes, byID: make(map[uint64]*Node, len(nodes))}
	for _, n := range nodes {
		t.byID[n.ID] = n
	}
	return t
}

// ByID looks up a node by its 9P path/qid. Returns nil if absent.
func (t *Table) ByID(id uint64) *Node {
	return t.byID[id]
}

// Root returns the tree root, always id 0.
func (t *Table) Root() *Node { return t.byID[IDRoot] }

// All returns every node, in table order (parent before child).
func (t *Table) All() []*Node { return t.nodes }

// Children returns every node whose Parent equals parentID, in table
// order.
func (t *Table) Children(parentID uint64) []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.Parent >= 0 && uint64(n.Parent) == parentID {
			out = append(out, n)
		}
	}
	return out
}

// FindChild finds a node named name directly under parentID. Scoping
// the search to parentID is what lets the same name ("1", for
// instance) appear under more than one directory, such as both
// modes/ssb and modes/ft8.
func (t *Table) FindChild(parentID uint64, name string) *Node {
	for _, n := range t.nodes {
		if n.Parent >= 0 && uint64(n.Parent) == parentID && n.Name == name {
			return n
		}
	}
	return nil
}

// TextViews returns every RoleTextView node, in table order. Used by
// the mtime propagator, which scans exactly this set (not
// RoleSpansView) on every stat of a text file.
func (t *Table) TextViews() []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.Role == RoleTextView {
			out = append(out, n)
		}
	}
	return out
}
