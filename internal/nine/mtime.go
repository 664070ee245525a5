package nine

import (
	"sbitx9p/internal/filetable"
	"sbitx9p/internal/radio"
	"sbitx9p/internal/wire"
)

// propagateMtime is the console-driven mtime/version propagator. Every
// RoleTextView node is touched on every stat of any text file, not
// just the one being examined, since the console's clock advances
// globally. The ancestor directory chain is only ever walked once per
// call, kicked off by the first text node the reverse scan reaches,
// regardless of whether that particular node's own mtime actually
// advanced.
func propagateMtime(t *filetable.Table, host radio.Host) {
	views := t.TextViews()
	newMtime := host.LastTime()

	walked := false
	for i := len(views) - 1; i >= 0; i-- {
		n := views[i]
		n.Touch(newMtime)
		if !walked {
			walked = true
			touchAncestors(t, n, newMtime)
		}
	}
}

func touchAncestors(t *filetable.Table, n *filetable.Node, newMtime uint32) {
	parent := n.Parent
	for parent >= 0 {
		p := t.ByID(uint64(parent))
		if p == nil {
			return
		}
		p.Touch(newMtime)
		parent = p.Parent
	}
}

// statNode builds the wire Stat for n. snapshot pins a text/spans view
// to the data_index captured by a prior matching Topen; pass
// radio.NoSnapshot when n is merely being listed as another
// directory's child, since only the fid actually opened on n carries a
// snapshot.
func (c *conn) statNode(n *filetable.Node, snapshot int64) wire.Stat {
	st := wire.Stat{
		Kind:  0,
		Dev:   0,
		Qid:   qidOf(n),
		Mode:  n.Mode,
		Atime: n.Atime(),
		Mtime: n.Mtime(),
		Name:  n.Name,
		Uid:   c.srv.Host.Owner(),
		Gid:   c.srv.Host.Owner(),
		Muid:  c.srv.Host.Owner(),
	}

	switch n.Role {
	case filetable.RoleTextView:
		propagateMtime(c.srv.Table, c.srv.Host)
		st.Mtime = c.srv.Host.LastTime()
		st.Length = uint64(radio.StatTextLength(c.srv.Host, n.Semantic, snapshot))
	case filetable.RoleSpansView:
		st.Mtime = c.srv.Host.LastTime()
		st.Length = uint64(radio.StatSpansLength(c.srv.Host, n.Semantic, snapshot))
	case filetable.RoleSpectrumRaw:
		st.Length = uint64(spectrumBins)
	case filetable.RoleEventQueue:
		st.Length = uint64(c.eventQueueLength())
	case filetable.RoleField:
		st.Length = uint64(len(c.srv.Host.GetFieldValue(n.Key)))
	case filetable.RoleFieldMeta:
		label, format := metaLabelFormat(n)
		st.Length = uint64(len(radio.ReadFieldMeta(c.srv.Host, n, label, format)))
	case filetable.RoleFieldChoices:
		st.Length = uint64(len(radio.ReadFieldChoices(c.srv.Host, n.Key)))
	case filetable.RoleDir:
		st.Length = 0
	}
	return st
}

// eventQueueLength resolves the event queue length for the calling
// connection's attached client, or 0 if it somehow isn't attached --
// stat on the event file only ever happens on a fid under an attached
// connection's own walk, but this keeps statNode total.
func (c *conn) eventQueueLength() int {
	c.mu.Lock()
	attached, clientID := c.attached, c.clientID
	c.mu.Unlock()
	if !attached {
		return 0
	}
	return c.srv.Events.StatLength(clientID)
}
