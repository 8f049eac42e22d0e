// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package source implements a pull-based character cursor over an input
// stream. Input is buffered one chunk at a time, where a chunk is a line of
// text or a fixed number of bytes, whichever is shorter.
package source

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"

	"go4.org/mem"
)

// DefaultChunkSize is the maximum chunk size used when none is specified.
const DefaultChunkSize = 4096

// A Reader is a character cursor over an io.Reader. It reads more input only
// when the caller asks for a character that is not already buffered.
type Reader struct {
	r     *bufio.Reader
	chunk []byte // current chunk; owned by the reader
	off   int    // byte offset of the cursor in chunk
	eof   bool   // r has reported io.EOF
	err   error  // sticky read error

	pos       int // characters consumed
	line, col int // 0-based line and column of the cursor
}

// New constructs a Reader that consumes input from r in chunks of at most
// chunkSize bytes. If chunkSize <= 0, DefaultChunkSize is used.
func New(r io.Reader, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Reader{r: bufio.NewReaderSize(r, chunkSize)}
}

// Pos returns the number of characters consumed so far.
func (r *Reader) Pos() int { return r.pos }

// Line returns the 0-based line number of the cursor.
func (r *Reader) Line() int { return r.line }

// Column returns the 0-based column of the cursor, in characters.
func (r *Reader) Column() int { return r.col }

// Peek returns the character at the cursor without consuming it.
// It returns io.EOF if no further input is available.
func (r *Reader) Peek() (rune, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	ch, _ := mem.DecodeRune(mem.B(r.chunk[r.off:]))
	return ch, nil
}

// Advance consumes and returns the character at the cursor.
// It returns io.EOF if no further input is available.
func (r *Reader) Advance() (rune, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	ch, n := mem.DecodeRune(mem.B(r.chunk[r.off:]))
	r.off += n
	r.pos++
	if ch == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return ch, nil
}

// DiscardLine consumes characters through the next newline, or to the end of
// the input if there is no further newline.
func (r *Reader) DiscardLine() error {
	for {
		ch, err := r.Advance()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if ch == '\n' {
			return nil
		}
	}
}

// fill ensures a complete character is buffered at the cursor, reading more
// chunks from the input as needed.
func (r *Reader) fill() error {
	for {
		rest := r.chunk[r.off:]
		if len(rest) != 0 && (r.eof || utf8.FullRune(rest)) {
			return nil
		} else if r.err != nil {
			return r.err
		} else if r.eof {
			return io.EOF
		}
		r.refill()
	}
}

// refill reads the next chunk of input. Any undecoded bytes remaining in the
// current chunk (part of a multi-byte character) are kept at its front.
func (r *Reader) refill() {
	n := copy(r.chunk, r.chunk[r.off:])
	r.chunk, r.off = r.chunk[:n], 0

	data, err := r.r.ReadSlice('\n')
	r.chunk = append(r.chunk, data...)
	switch {
	case err == nil, errors.Is(err, bufio.ErrBufferFull):
		// OK, more may follow
	case err == io.EOF:
		r.eof = true
	default:
		r.err = err
	}
}
