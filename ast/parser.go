// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/creachadair/jstream"
)

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	var vs []Value
	for v, err := range Values(r) {
		if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// ParseSingle parses a single JSON value from r. The value must be followed
// only by whitespace. Empty input is reported as an UnexpectedEOF error.
func ParseSingle(r io.Reader) (Value, error) { return NewReader(r).ParseSingle() }

// Values returns an iterator over the whitespace-separated JSON values of r.
// Each value is parsed only when the iterator asks for it. The sequence ends
// at the end of the input, or after the first error.
func Values(r io.Reader) iter.Seq2[Value, error] { return NewReader(r).All() }

// A Reader reads a sequence of JSON values from an input stream.
type Reader struct {
	st *jstream.Stream
	h  parseHandler
}

// NewReader constructs a Reader that consumes input from r.
func NewReader(r io.Reader) *Reader { return NewReaderWithStream(jstream.NewStream(r)) }

// NewReaderWithStream constructs a Reader that parses values from st.
func NewReaderWithStream(st *jstream.Stream) *Reader { return &Reader{st: st} }

// Stream returns the stream parser underlying r. The caller may use it to
// configure r before reading values.
func (r *Reader) Stream() *jstream.Stream { return r.st }

// Next parses and returns the next value from the input. It returns io.EOF
// when no further values are available. Syntax errors have concrete type
// *jstream.SyntaxError.
func (r *Reader) Next() (Value, error) {
	r.h.reset()
	if err := r.st.ParseOne(&r.h); err != nil {
		return nil, err
	}
	return r.h.result()
}

// ParseSingle parses exactly one value from the input, which must be followed
// only by whitespace.
func (r *Reader) ParseSingle() (Value, error) {
	r.h.reset()
	if err := r.st.ParseSingle(&r.h); err != nil {
		return nil, err
	}
	return r.h.result()
}

// All returns an iterator over the remaining values of the input. Each error
// is reported as an item of the sequence. The sequence ends at the end of the
// input, or after an error that stops the underlying stream. If the stream is
// configured with jstream.ResyncLine, the sequence continues after syntax
// errors.
func (r *Reader) All() iter.Seq2[Value, error] {
	return func(yield func(Value, error) bool) {
		for {
			v, err := r.Next()
			if err == io.EOF {
				return
			} else if !yield(v, err) {
				return
			} else if err != nil && r.st.Err() != nil {
				return
			}
		}
	}
}

// A parseHandler implements the jstream.Handler interface to construct values
// from parser events.
type parseHandler struct {
	stk  []*frame
	root Value
	done bool
}

// A frame is an object or array under construction.
type frame struct {
	obj Object // if non-nil, the object being built
	arr Array  // otherwise, the array being built
	key string // for objects, the key of the current member
}

func (f *frame) value() Value {
	if f.obj != nil {
		return f.obj
	}
	return f.arr
}

func (h *parseHandler) reset() {
	clear(h.stk)
	h.stk = h.stk[:0]
	h.root, h.done = nil, false
}

func (h *parseHandler) result() (Value, error) {
	if !h.done || len(h.stk) != 0 {
		return nil, errors.New("incomplete value")
	}
	return h.root, nil
}

func (h *parseHandler) top() *frame { return h.stk[len(h.stk)-1] }

func (h *parseHandler) push(f *frame) { h.stk = append(h.stk, f) }

func (h *parseHandler) pop() *frame {
	last := h.top()
	h.stk[len(h.stk)-1] = nil
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// add adds v to the innermost open object or array, or records it as the
// complete result if none is open.
func (h *parseHandler) add(v Value) error {
	if len(h.stk) == 0 {
		h.root, h.done = v, true
		return nil
	}
	if f := h.top(); f.obj != nil {
		f.obj[f.key] = v
	} else {
		f.arr = append(f.arr, v)
	}
	return nil
}

func (h *parseHandler) BeginObject(jstream.Lexeme) error {
	h.push(&frame{obj: make(Object)})
	return nil
}

func (h *parseHandler) EndObject(jstream.Lexeme) error { return h.add(h.pop().value()) }

func (h *parseHandler) BeginArray(jstream.Lexeme) error {
	h.push(&frame{arr: Array{}})
	return nil
}

func (h *parseHandler) EndArray(jstream.Lexeme) error { return h.add(h.pop().value()) }

func (h *parseHandler) BeginMember(lx jstream.Lexeme) error {
	h.top().key = lx.Text
	return nil
}

func (h *parseHandler) EndMember(jstream.Lexeme) error { return nil }

func (h *parseHandler) Value(lx jstream.Lexeme) error {
	switch lx.Token {
	case jstream.String:
		return h.add(String(lx.Text))
	case jstream.Number:
		return h.add(Number(lx.Num))
	case jstream.True, jstream.False:
		return h.add(Bool(lx.Bool()))
	case jstream.Null:
		return h.add(Null{})
	default:
		return fmt.Errorf("unknown value %v", lx.Token)
	}
}

func (h *parseHandler) EndOfInput(jstream.Lexeme) {}
