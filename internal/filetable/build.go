package filetable

// Permission words: directories are DMDIR|DMEXCL|0777, writable files
// are DMEXCL|0666, and read-only files are DMEXCL|0444.
const (
	modeDir      = DMDIR | DMEXCL | 0777
	modeWritable = DMEXCL | 0666
	modeReadOnly = DMEXCL | 0444
)

func dir(id uint64, name string, parent int64) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeDir, Role: RoleDir}
}

func field(id uint64, name string, parent int64, key string) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeWritable, Role: RoleField, Key: key, WriteKey: key}
}

func roField(id uint64, name string, parent int64, key string) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeReadOnly, Role: RoleField, Key: key}
}

func meta(id uint64, name string, parent int64, key string, m MetaField) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeReadOnly, Role: RoleFieldMeta, Key: key, Meta: m}
}

func metaWritable(id uint64, name string, parent int64, key string, m MetaField) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeWritable, Role: RoleFieldMeta, Key: key, WriteKey: key, Meta: m}
}

func textView(id uint64, name string, parent int64, key string, sem Semantic) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeWritable, Role: RoleTextView, Key: key, Semantic: sem}
}

func spansView(id uint64, name string, parent int64, key string, sem Semantic) *Node {
	return &Node{ID: id, Name: name, Parent: parent, Mode: modeWritable, Role: RoleSpansView, Key: key, Semantic: sem}
}

// channelNode describes one mode-specific receive/transmit channel:
// FT8 or CW. hasSend controls whether the channel gets a "send" file
// (only FT8 transmits text this way; CW keying is out of scope).
type channelNode struct {
	id       uint64
	name     string
	freqKey  string
	gainKey  string
	rxKey    string // console filter key for received/sent
	rxSem    Semantic
	txSem    Semantic
	hasSend  bool
}

func buildChannel(nodes []*Node, c channelNode, parentDir uint64) []*Node {
	ch := c.id
	nodes = append(nodes, dir(ch, c.name, int64(parentDir)))

	freqID := ch + uint64(ChFreq)
	nodes = append(nodes,
		field(freqID, "frequency", int64(ch), c.freqKey),
	)
	freqMetaID := ch + uint64(ChFreqMeta)
	nodes = append(nodes, dir(freqMetaID, "frequency.meta", int64(ch)))
	nodes = append(nodes,
		meta(ch+uint64(ChFreqLabel), "label", int64(freqMetaID), c.freqKey, MetaLabel),
		meta(ch+uint64(ChFreqFmt), "format", int64(freqMetaID), c.freqKey, MetaFormat),
		meta(ch+uint64(ChFreqMin), "min", int64(freqMetaID), c.freqKey, MetaMin),
		meta(ch+uint64(ChFreqMax), "max", int64(freqMetaID), c.freqKey, MetaMax),
		metaWritable(ch+uint64(ChFreqStep), "step", int64(freqMetaID), c.freqKey, MetaStep),
	)

	nodes = append(nodes, field(ch+uint64(ChIfGain), "if_gain", int64(ch), c.gainKey))

	nodes = append(nodes, textView(ch+uint64(ChReceived), "received", int64(ch), c.rxKey, c.rxSem))
	recvMetaID := ch + uint64(ChReceivedMeta)
	nodes = append(nodes, dir(recvMetaID, "received.meta", int64(ch)))
	nodes = append(nodes, spansView(ch+uint64(ChReceivedSpans), "spans", int64(recvMetaID), c.rxKey, c.rxSem))

	nodes = append(nodes, textView(ch+uint64(ChSent), "sent", int64(ch), c.rxKey, c.txSem))

	if c.hasSend {
		nodes = append(nodes, &Node{
			ID: ch + uint64(ChSend), Name: "send", Parent: int64(ch),
			Mode: modeWritable, Role: RoleField, Key: "", WriteKey: c.rxKey + ":send",
		})
	}
	return nodes
}

// NewSbitxTable builds the static file table exported by the server:
// the fixed settings/text/battery/spectrum/modes tree, plus an FT8
// channel and a CW channel under modes/.
func NewSbitxTable() *Table {
	var nodes []*Node

	nodes = append(nodes, dir(IDRoot, "/", -1))

	nodes = append(nodes, &Node{ID: IDEvent, Name: "event", Parent: IDRoot, Mode: modeWritable, Role: RoleEventQueue})

	nodes = append(nodes, dir(IDSettings, "settings", IDRoot))
	nodes = append(nodes,
		field(IDSetCall, "callsign", IDSettings, "#mycallsign"),
		field(IDSetGrid, "grid", IDSettings, "#mygrid"),
	)

	nodes = append(nodes, textView(IDText, "text", IDRoot, "all", SemNone))

	nodes = append(nodes, dir(IDBattery, "battery", IDRoot))
	nodes = append(nodes, roField(IDBatteryVolt, "voltage", IDBattery, "#battery_voltage"))
	nodes = append(nodes, roField(IDSMeter, "s", IDRoot, "#smeter"))

	nodes = append(nodes, &Node{ID: IDSpectrum, Name: "spectrum", Parent: IDRoot, Mode: modeReadOnly, Role: RoleSpectrumRaw})
	nodes = append(nodes, dir(IDSpectrumMeta, "spectrum.meta", IDRoot))
	nodes = append(nodes, field(IDSpectrumSpan, "span", IDSpectrumMeta, "#spectrum_span"))
	nodes = append(nodes, dir(IDSpectrumSpanMeta, "span.meta", IDSpectrumMeta))
	nodes = append(nodes, &Node{
		ID: IDSpectrumSpanChoices, Name: "choices", Parent: int64(IDSpectrumSpanMeta),
		Mode: modeReadOnly, Role: RoleFieldChoices, Key: "#spectrum_span",
	})

	nodes = append(nodes, dir(IDModes, "modes", IDRoot))
	nodes = append(nodes, dir(IDModeFT8, "ft8", IDModes))
	nodes = buildChannel(nodes, channelNode{
		id: IDFT8Channel1, name: "1",
		freqKey: "r1:freq", gainKey: "r1:gain", rxKey: "ft8_1",
		rxSem: SemFT8RX, txSem: SemFT8TX, hasSend: true,
	}, IDModeFT8)

	nodes = append(nodes, dir(IDModeCW, "cw", IDModes))
	nodes = buildChannel(nodes, channelNode{
		id: IDCWChannel1, name: "1",
		freqKey: "r1:cwfreq", gainKey: "r1:cwgain", rxKey: "cw_1",
		rxSem: SemCWRX, txSem: SemCWTX, hasSend: false,
	}, IDModeCW)

	return New(nodes)
}
