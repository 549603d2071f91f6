package heap

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Fprintf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

func (e *errWriter) Fprintln(a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, a...)
}

// printable -> itself, else '.'
func asciiPreview(b []byte) string {
	var buf bytes.Buffer
	for _, c := range b {
		if c < 0x80 && unicode.IsPrint(rune(c)) {
			buf.WriteByte(c)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

// Debug prints the header bitmap, slot usage and a preview of each stored
// tuple, raw and decoded.
func (hp *HeapPage) Debug(w io.Writer) error {
	ew := &errWriter{w: w}
	tupleSize := hp.schema.Size()

	ew.Fprintf("=== Heap Page %s ===\n", hp.id)
	ew.Fprintf("pageSize=%d tupleSize=%d slots=%d used=%d headerBytes=%d\n",
		len(hp.data), tupleSize, hp.numSlots, hp.numSlots-hp.NumEmptySlots(), len(hp.header))
	ew.Fprintf("header(hex)=%s\n", hex.EncodeToString(hp.header))

	ew.Fprintln("\n-- Tuples --")
	if hp.NumEmptySlots() == hp.numSlots {
		ew.Fprintln("(none)")
	}
	const maxPreview = 32
	base := len(hp.header)
	for i, t := range hp.tuples {
		if ew.err != nil {
			break
		}
		if t == nil {
			continue
		}
		off := base + i*tupleSize
		raw := hp.data[off : off+tupleSize]
		preview := raw[:min(len(raw), maxPreview)]
		ew.Fprintf("[%d] off=%d %s\n", i, off, t)
		ew.Fprintf("     preview(hex)=%s\n", hex.EncodeToString(preview))
		ew.Fprintf("     preview(ascii)=%q\n", asciiPreview(preview))
	}

	used := base + hp.numSlots*tupleSize
	ew.Fprintf("\n-- Unused tail --\nrange: [%d .. %d) size=%d bytes\n", used, len(hp.data), len(hp.data)-used)
	ew.Fprintln("=== End Heap Page ===")
	return ew.err
}

func (hp *HeapPage) DebugString() string {
	var b bytes.Buffer
	if err := hp.Debug(&b); err != nil {
		_, _ = b.WriteString("\n<debug write error: " + err.Error() + ">\n")
	}
	return b.String()
}
