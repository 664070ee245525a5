package radio

import (
	"strconv"
	"strings"

	"sbitx9p/internal/filetable"
)

// ReadField implements the scalar field read path: slice [offset,
// offset+length) out of the field's current string value, signaling
// EOF with a zero-length result once offset reaches the end of the
// value.
func ReadField(h FieldStore, key string, offset, length int) []byte {
	val := h.GetFieldValue(key)
	if offset >= len(val) {
		return nil
	}
	end := offset + length
	if end > len(val) {
		end = len(val)
	}
	return []byte(val[offset:end])
}

// TrimWS trims leading and trailing ASCII whitespace.
func TrimWS(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
}

// WriteField implements the scalar field write path: trim the
// payload, forward it to the host, and report the original (untrimmed)
// byte count as consumed, regardless of how much of the trimmed string
// the host actually stored.
//
// ft8ModeKludge, when true, additionally sets the global "mode"
// field to "FT8" whenever the frequency is written. It is the
// caller's responsibility to pass true only for an FT8 channel's
// frequency.meta-adjacent "frequency" node; see
// internal/nine/dispatch.go.
func WriteField(h FieldStore, n *filetable.Node, payload []byte, ft8ModeKludge bool) int {
	trimmed := TrimWS(string(payload))
	h.SetField(n.WriteKey, trimmed)
	if ft8ModeKludge {
		h.SetField("mode", "FT8")
	}
	return len(payload)
}

// WriteFieldStep implements the frequency.meta/step write path: parse
// the trimmed payload as an integer and store it as key's tuning step,
// separately from the field's own value. Unlike WriteField, this never
// touches GetFieldValue/SetField's value store -- step is range
// metadata, not the field itself, so sharing WriteField's generic
// SetField(n.WriteKey, ...) would silently overwrite the live field
// value instead of the step.
func WriteFieldStep(h FieldStore, key string, payload []byte) (int, bool) {
	trimmed := TrimWS(string(payload))
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	if !h.SetFieldStep(key, v) {
		return 0, false
	}
	return len(payload), true
}

// ReadFieldMeta implements the RoleFieldMeta read path:
// label/format/min/max/step, derived from the field's declared range
// plus a role-dependent label and printf-style format.
//
// label and format are supplied by the caller because they are a
// property of which channel field this meta node describes (e.g.
// "Frequency" / "%.0f" for a frequency node), not of the field store.
func ReadFieldMeta(h FieldStore, n *filetable.Node, label, format string) []byte {
	min, max, step, ok := h.GetFieldMeta(n.Key)
	switch n.Meta {
	case filetable.MetaLabel:
		return []byte(label)
	case filetable.MetaFormat:
		return []byte(format)
	case filetable.MetaMin:
		if !ok {
			return nil
		}
		return []byte(strconv.Itoa(min))
	case filetable.MetaMax:
		if !ok {
			return nil
		}
		return []byte(strconv.Itoa(max))
	case filetable.MetaStep:
		if !ok {
			return nil
		}
		return []byte(strconv.Itoa(step))
	}
	return nil
}

// ReadFieldChoices implements the RoleFieldChoices read path: the
// host's "/"-separated choice list, rendered tab-separated on the
// wire.
func ReadFieldChoices(h FieldStore, key string) []byte {
	raw := h.GetFieldSelections(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	return []byte(strings.Join(parts, "\t"))
}
