// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/creachadair/jstream"
)

// benchInput generates a stream of n moderately nested JSON documents.
func benchInput(n int) []byte {
	var buf bytes.Buffer
	for i := range n {
		fmt.Fprintf(&buf, `{"id": %d, "name": "item é %d", "price": %d.%02d, "ok": %v, `+
			`"tags": ["alpha", "beta", "γάμμα"], "dims": {"w": 1e3, "h": -0.25, "d": null}}`+"\n",
			i, i, i*3, i%100, i%2 == 0)
	}
	return buf.Bytes()
}

func BenchmarkScanner(b *testing.B) {
	input := benchInput(2000)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for b.Loop() {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Scanner", func(b *testing.B) {
		for b.Loop() {
			// The scanner decodes strings and numbers as it goes, like the
			// standard library Decoder does.
			s := jstream.NewScanner(bytes.NewReader(input))
			for _, err := range s.All() {
				if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})
}

func BenchmarkStream(b *testing.B) {
	input := benchInput(2000)
	b.Logf("Benchmark input: %d bytes", len(input))

	for b.Loop() {
		st := jstream.NewStream(bytes.NewReader(input))
		if err := st.Parse(nopHandler{}); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

type nopHandler struct{}

func (nopHandler) BeginObject(jstream.Lexeme) error { return nil }
func (nopHandler) EndObject(jstream.Lexeme) error   { return nil }
func (nopHandler) BeginArray(jstream.Lexeme) error  { return nil }
func (nopHandler) EndArray(jstream.Lexeme) error    { return nil }
func (nopHandler) BeginMember(jstream.Lexeme) error { return nil }
func (nopHandler) EndMember(jstream.Lexeme) error   { return nil }
func (nopHandler) Value(jstream.Lexeme) error       { return nil }
func (nopHandler) EndOfInput(jstream.Lexeme)        {}
