// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bufio"
	"io"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// Format writes the JSON encoding of v to w. If indent == "" the output is
// compact; otherwise each member of an object and each element of an array is
// written on its own line, indented by one copy of indent per level of
// nesting. Object keys are rendered in sorted order. No trailing newline is
// written.
func Format(w io.Writer, v Value, indent string) error {
	bw := bufio.NewWriter(w)
	formatValue(bw, v, indent, "")
	return bw.Flush()
}

// textWriter is the subset of writer methods used by formatValue.
// Both *strings.Builder and *bufio.Writer satisfy it.
type textWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

func formatValue(w textWriter, v Value, indent, prefix string) {
	switch t := v.(type) {
	case Object:
		if len(t) == 0 {
			w.WriteString("{}")
			return
		}
		inner := prefix + indent
		w.WriteByte('{')
		for i, key := range t.Keys() {
			if i > 0 {
				w.WriteByte(',')
			}
			newline(w, indent, inner)
			w.Write(escape.Quote(mem.S(key)))
			w.WriteByte(':')
			if indent != "" {
				w.WriteByte(' ')
			}
			formatValue(w, t[key], indent, inner)
		}
		newline(w, indent, prefix)
		w.WriteByte('}')

	case Array:
		if len(t) == 0 {
			w.WriteString("[]")
			return
		}
		inner := prefix + indent
		w.WriteByte('[')
		for i, elt := range t {
			if i > 0 {
				w.WriteByte(',')
			}
			newline(w, indent, inner)
			formatValue(w, elt, indent, inner)
		}
		newline(w, indent, prefix)
		w.WriteByte(']')

	case nil:
		w.WriteString("null")

	default:
		w.WriteString(v.JSON())
	}
}

// newline starts a new indented line, unless the output is compact.
func newline(w textWriter, indent, prefix string) {
	if indent != "" {
		w.WriteByte('\n')
		w.WriteString(prefix)
	}
}
