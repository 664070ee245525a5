package radio

import "sbitx9p/internal/filetable"

// NoSnapshot marks a console read/stat as "live tail", i.e. not
// pinned to a data_index captured by an earlier spans open.
const NoSnapshot int64 = -1

// ReadText implements the RoleTextView read path: the concatenation of
// filtered line content from offset, up to length bytes.
func ReadText(h Console, filter filetable.Semantic, offset, length int, snapshot int64) []byte {
	return h.Text(filter, offset, length, snapshot)
}

// ReadSpans implements the RoleSpansView read path: an array of packed
// 8-byte span records. offset and length are byte offsets/counts into
// the conceptual span array, exactly like a regular file read (so a
// client reading with a small count resumes correctly); TextSpans does
// the byte<->span-index conversion.
func ReadSpans(h Console, filter filetable.Semantic, offset, length int, snapshot int64) []byte {
	spans := h.TextSpans(filter, offset, length, snapshot)
	out := make([]byte, 0, len(spans)*8)
	for _, s := range spans {
		b := s.Pack()
		out = append(out, b[:]...)
	}
	return out
}

// StatTextLength returns the byte length a stat on a RoleTextView
// node should report.
func StatTextLength(h Console, filter filetable.Semantic, snapshot int64) int {
	return h.CurrentLength(filter, snapshot)
}

// StatSpansLength returns the byte length a stat on a RoleSpansView
// node should report: spans are fixed 8 bytes each on the wire.
func StatSpansLength(h Console, filter filetable.Semantic, snapshot int64) int {
	return h.CurrentSpansLength(filter, snapshot) * 8
}
