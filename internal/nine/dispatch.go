package nine

import (
	"sbitx9p/internal/fids"
	"sbitx9p/internal/filetable"
	"sbitx9p/internal/radio"
	"sbitx9p/internal/wire"
)

// Error strings, the uniform Rerror payloads for each failure class.
const (
	errNoFile  = "file not found"
	errNoPerm  = "permission denied"
	errBadFid  = "bad FID"
	errBadVal  = "bad value"
)

func rerror(tag uint16, msg string) wire.Msg {
	return wire.NewRerror(tag, msg)
}

// dispatch routes one decoded request to its handler. Every path
// returns exactly one reply, R<type> or Rerror; Tflush always gets
// Rflush. dispatch never returns nil.
func (c *conn) dispatch(m wire.Msg) wire.Msg {
	switch req := m.(type) {
	case wire.TVersion:
		return c.onVersion(req)
	case wire.TAttach:
		return c.onAttach(req)
	case wire.TWalk:
		return c.onWalk(req)
	case wire.TOpen:
		return c.onOpen(req)
	case wire.TRead:
		return c.onRead(req)
	case wire.TWrite:
		return c.onWrite(req)
	case wire.TStat:
		return c.onStat(req)
	case wire.TClunk:
		return c.onClunk(req)
	case wire.TFlush:
		return wire.RFlush{} // always acknowledged without action; nothing actually cancels
	case wire.TRemove:
		return rerror(req.Tag(), errNoPerm)
	case wire.TCreate:
		return rerror(req.Tag(), errNoPerm)
	default:
		return rerror(m.Tag(), "unexpected message type")
	}
}

func (c *conn) onVersion(req wire.TVersion) wire.Msg {
	msize := req.Msize
	if msize > wire.DefaultMsize {
		msize = wire.DefaultMsize
	}
	c.mu.Lock()
	c.msize = msize
	c.attached = false
	c.clientID = 0
	c.openFIDs = 0
	c.mu.Unlock()
	// reset any per-connection state: every FID this connection owned
	// is gone the moment Tversion runs again (Tversion always precedes
	// a fresh session per 9P2000).
	c.srv.Fids.FreeConn(c.id)
	return wire.RVersion{Msize: msize, Version: "9P2000"}
}

func (c *conn) onAttach(req wire.TAttach) wire.Msg {
	root := c.srv.Table.Root()
	clientID, ok := c.srv.Events.Attach()
	if !ok {
		return rerror(req.Tag(), "too many clients")
	}
	if _, ok := c.srv.Fids.Alloc(c.id, req.Fid, root, clientID); !ok {
		c.srv.Events.Detach(clientID)
		return rerror(req.Tag(), "too many open files")
	}
	c.mu.Lock()
	c.attached = true
	c.clientID = clientID
	c.openFIDs++
	c.mu.Unlock()
	return wire.RAttach{Qid: qidOf(root)}
}

func qidOf(n *filetable.Node) wire.Qid {
	return wire.Qid{Type: wire.QidType(n.QidType()), Version: n.Version(), Path: n.ID}
}

// onWalk implements standard Twalk semantics: on failure at step 0,
// Rerror "file not found"; on failure at step > 0, reply with the
// successful prefix's qids and no Rerror.
func (c *conn) onWalk(req wire.TWalk) wire.Msg {
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}

	cur := aux.Node
	qids := make([]wire.Qid, 0, len(req.Wname))
	for _, name := range req.Wname {
		next := c.srv.Table.FindChild(cur.ID, name)
		if next == nil {
			if len(qids) == 0 {
				return rerror(req.Tag(), errNoFile)
			}
			break
		}
		cur = next
		qids = append(qids, qidOf(cur))
	}

	if len(req.Wname) == 0 || len(qids) == len(req.Wname) {
		clientID := aux.ClientID
		if _, ok := c.srv.Fids.Alloc(c.id, req.NewFid, cur, clientID); !ok {
			return rerror(req.Tag(), "too many open files")
		}
		c.mu.Lock()
		c.openFIDs++
		c.mu.Unlock()
	}
	return wire.RWalk{Wqid: qids}
}

func (c *conn) onOpen(req wire.TOpen) wire.Msg {
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}
	n := aux.Node

	write := req.Mode&3 == wire.OWRITE || req.Mode&3 == wire.ORDWR
	if write && n.Mode&0222 == 0 {
		return rerror(req.Tag(), errNoPerm)
	}

	switch n.Role {
	case filetable.RoleSpansView:
		aux.DataIndex = int64(c.srv.Host.LastLine())
	case filetable.RoleTextView:
		if n.Name == "received" {
			if spans, ok := c.srv.Fids.FindSpansAux(aux.ClientID); ok {
				aux.DataIndex = spans.DataIndex
			}
		}
	}
	n.SetAtime(c.srv.Host.Now())
	return wire.ROpen{Qid: qidOf(n), IoUnit: 0}
}

func (c *conn) onRead(req wire.TRead) wire.Msg {
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}
	n := aux.Node
	max := wire.MaxData(c.msize)
	count := req.Count
	if count > max {
		count = max
	}

	if n.IsDir() {
		data := c.readDir(aux, int(count))
		return wire.RRead{Data: data}
	}

	data, err := c.readFile(aux, int(req.Offset), int(count))
	if err != nil {
		return rerror(req.Tag(), err.Error())
	}

	// the "received" file's snapshot transaction ends once it's been
	// read to EOF; the next stat will show the live length again.
	if n.Role == filetable.RoleTextView && n.Name == "received" && aux.DataIndex >= 0 && len(data) == 0 {
		aux.DataIndex = -1
	}
	return wire.RRead{Data: data}
}

func (c *conn) readDir(aux *fids.Aux, maxBytes int) []byte {
	children := c.srv.Table.Children(aux.Node.ID)
	var out []byte
	for int(aux.Offset) < len(children) {
		n := children[aux.Offset]
		st := c.statNode(n, radio.NoSnapshot)
		raw := st.Pack()
		if len(out)+len(raw) > maxBytes {
			break
		}
		out = append(out, raw...)
		aux.Offset++
	}
	return out
}

func (c *conn) readFile(aux *fids.Aux, offset, length int) ([]byte, error) {
	n := aux.Node
	switch n.Role {
	case filetable.RoleField:
		return radio.ReadField(c.srv.Host, n.Key, offset, length), nil
	case filetable.RoleFieldMeta:
		label, format := metaLabelFormat(n)
		return radio.ReadFieldMeta(c.srv.Host, n, label, format), nil
	case filetable.RoleFieldChoices:
		return radio.ReadFieldChoices(c.srv.Host, n.Key), nil
	case filetable.RoleTextView:
		return radio.ReadText(c.srv.Host, n.Semantic, offset, length, aux.DataIndex), nil
	case filetable.RoleSpansView:
		return radio.ReadSpans(c.srv.Host, n.Semantic, offset, length, aux.DataIndex), nil
	case filetable.RoleSpectrumRaw:
		return readSpectrum(c.srv.Host, offset, length), nil
	case filetable.RoleEventQueue:
		return c.srv.Events.Read(aux.ClientID, length), nil
	}
	return nil, nil
}

const spectrumBins = 1024

func readSpectrum(h radio.Host, offset, length int) []byte {
	buf := make([]byte, spectrumBins)
	n := h.Bins(buf)
	buf = buf[:n]
	if offset >= len(buf) {
		return nil
	}
	end := offset + length
	if end > len(buf) {
		end = len(buf)
	}
	return buf[offset:end]
}

// metaLabelFormat supplies the role-dependent label/format pair for a
// RoleFieldMeta node. Only frequency fields carry a label/format;
// other meta fields report min/max/step only, so label/format are
// empty there and ReadFieldMeta returns nil for them anyway.
func metaLabelFormat(n *filetable.Node) (label, format string) {
	_, role := filetable.ChannelGroup(n.ID)
	if role == filetable.ChFreqLabel || role == filetable.ChFreqFmt ||
		role == filetable.ChFreqMin || role == filetable.ChFreqMax || role == filetable.ChFreqStep {
		return "Frequency", "%.0f"
	}
	return "", ""
}

func (c *conn) onWrite(req wire.TWrite) wire.Msg {
	if len(req.Data) == 0 {
		return wire.RWrite{Count: 0}
	}
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}
	n := aux.Node
	if n.Mode&0222 == 0 || (n.Role != filetable.RoleField && n.Role != filetable.RoleFieldMeta) {
		return rerror(req.Tag(), errNoPerm)
	}

	switch n.Role {
	case filetable.RoleField:
		group, role := filetable.ChannelGroup(n.ID)
		kludge := group == filetable.IDFT8Channel1 && role == filetable.ChFreq
		count := radio.WriteField(c.srv.Host, n, req.Data, kludge)
		return wire.RWrite{Count: uint32(count)}
	case filetable.RoleFieldMeta:
		if n.Meta != filetable.MetaStep {
			return rerror(req.Tag(), errNoPerm)
		}
		count, ok := radio.WriteFieldStep(c.srv.Host, n.Key, req.Data)
		if !ok {
			return rerror(req.Tag(), errBadVal)
		}
		return wire.RWrite{Count: uint32(count)}
	}
	return rerror(req.Tag(), errNoPerm)
}

func (c *conn) onStat(req wire.TStat) wire.Msg {
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}
	return wire.RStat{Stat: c.statNode(aux.Node, aux.DataIndex)}
}

// onClunk runs the close-side effect for the FT8 "send" file: read the
// current field value, and if non-empty initiate transmit, otherwise
// abort -- then frees the FID.
func (c *conn) onClunk(req wire.TClunk) wire.Msg {
	aux, ok := c.srv.Fids.Lookup(c.id, req.Fid)
	if !ok {
		return rerror(req.Tag(), errBadFid)
	}
	n := aux.Node
	if n.Name == "send" {
		group, _ := filetable.ChannelGroup(n.ID)
		if group == filetable.IDFT8Channel1 {
			text := c.srv.Host.GetFieldValue(n.WriteKey)
			if radio.TrimWS(text) != "" {
				c.srv.Host.FT8Transmit(radio.TrimWS(text), 0)
			} else {
				c.srv.Host.FT8Abort()
			}
		}
	}

	c.srv.Fids.Free(c.id, req.Fid)
	c.mu.Lock()
	c.openFIDs--
	remaining, attached, clientID := c.openFIDs, c.attached, c.clientID
	c.mu.Unlock()
	if attached && remaining <= 0 {
		c.srv.Events.Detach(clientID)
		c.mu.Lock()
		c.attached = false
		c.mu.Unlock()
	}
	return wire.RClunk{}
}
