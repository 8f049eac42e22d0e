// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// Each method receives the lexeme that triggered the event. Lexemes are plain
// values, so a handler may retain them after the call returns.
type Handler interface {
	// Begin a new object, whose open brace is lx.
	BeginObject(lx Lexeme) error

	// End the most-recently-opened object, whose close brace is lx.
	EndObject(lx Lexeme) error

	// Begin a new array, whose open bracket is lx.
	BeginArray(lx Lexeme) error

	// End the most-recently-opened array, whose close bracket is lx.
	EndArray(lx Lexeme) error

	// Begin a new object member, whose key is lx. The key is already
	// unescaped; see Lexeme.Text.
	BeginMember(lx Lexeme) error

	// End the current object member giving the token that terminated the
	// member (either Comma or RBrace).
	EndMember(lx Lexeme) error

	// Report a data value. The type of the value can be recovered from the
	// token: String, Number, True, False, or Null.
	Value(lx Lexeme) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(lx Lexeme)
}

// ErrorPolicy selects what a Stream does after a parse error.
type ErrorPolicy byte

const (
	// StopOnError makes the first error final: every later call reports the
	// same error without reading further input.
	StopOnError ErrorPolicy = iota

	// ResyncLine discards the rest of the input line on which the error was
	// detected, so that the next call begins a fresh document on the
	// following line. This suits line-delimited input. I/O errors remain
	// final.
	ResyncLine
)

// DefaultMaxDepth is the default limit on the nesting depth of objects and
// arrays accepted by a Stream.
const DefaultMaxDepth = 512

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. It reads at most one
// lexeme beyond the end of the value being parsed.
type Stream struct {
	s        *Scanner
	tcomma   bool // allow trailing commas in objects and arrays
	maxDepth int
	policy   ErrorPolicy

	depth int    // current nesting depth
	la    Lexeme // lookahead, if hasLA
	hasLA bool
	err   error // sticky error
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamWithScanner(NewScanner(r)) }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream {
	return &Stream{s: s, maxDepth: DefaultMaxDepth}
}

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// SetMaxDepth sets the maximum nesting depth of objects and arrays. Input
// nested more deeply is reported as an InvalidStructure error. If n <= 0,
// nesting depth is not limited.
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

// SetErrorPolicy sets the behavior of s after a parse error.
func (s *Stream) SetErrorPolicy(p ErrorPolicy) { s.policy = p }

// Err returns the error that stopped s, or nil if s can continue.
func (s *Stream) Err() error { return s.err }

// Pos returns the number of characters of input consumed so far.
func (s *Stream) Pos() int { return s.s.Pos() }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
			s.reset(err.Kind == IOError, err)
		case handlerError:
			*errp = err.error
			s.reset(false, err.error)
		default:
			panic(serr)
		}
	}
}

// reset restores s to a consistent state after an error.
func (s *Stream) reset(fatal bool, err error) {
	s.depth = 0
	s.hasLA = false
	if fatal || s.policy == StopOnError {
		s.err = err
	} else if serr := s.s.SkipLine(); serr != nil {
		s.err = serr
	}
}

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. In case of a syntax error, the returned
// error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) error {
	for {
		if err := s.ParseOne(h); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) (err error) {
	if s.err != nil {
		return s.err
	}
	defer s.recoverParseError(&err)

	if lx := s.peek(); lx.Token == EOF {
		h.EndOfInput(lx)
		return io.EOF
	}
	s.parseValue(h)
	return nil
}

// ParseSingle parses exactly one value from the input stream and delivers
// events to h. The value must be followed only by whitespace; any other
// trailing content is reported as an UnexpectedToken error, and empty input
// as an UnexpectedEOF error.
func (s *Stream) ParseSingle(h Handler) (err error) {
	if s.err != nil {
		return s.err
	}
	defer s.recoverParseError(&err)

	s.parseValue(h)
	lx := s.peek()
	if lx.Token != EOF {
		s.syntaxError(UnexpectedToken, lx, EOF.String(), "expected %v, got %v", EOF, lx)
	}
	h.EndOfInput(lx)
	return nil
}

// parseValue consumes a single value of any type.
func (s *Stream) parseValue(h Handler) {
	switch lx := s.peek(); lx.Token {
	case LBrace:
		s.parseObject(h)
	case LSquare:
		s.parseArray(h)
	case String, Number, True, False, Null:
		s.advance()
		s.checkError(h.Value(lx))
	case EOF:
		s.syntaxError(UnexpectedEOF, lx, "value", "unexpected end of input, expected value")
	default:
		s.syntaxError(UnexpectedToken, lx, "value", "expected value, got %v", lx)
	}
}

// parseObject consumes an object and its members.
// Precondition: lookahead == LBrace.
func (s *Stream) parseObject(h Handler) {
	open := s.advance()
	s.enter(open)
	s.checkError(h.BeginObject(open))
	if lx := s.peek(); lx.Token == RBrace {
		s.closeObject(h, s.advance())
		return // empty object
	}
	for {
		// Parse a single member: "key": value
		key := s.require(String)
		s.checkError(h.BeginMember(key))
		s.require(Colon)
		s.parseValue(h)

		// Check whether we have more members (",") or are done ("}").
		sep := s.require(Comma, RBrace)
		s.checkError(h.EndMember(sep))
		if sep.Token == RBrace {
			s.closeObject(h, sep)
			return
		}

		// A comma directly before the close brace is a trailing comma.
		if lx := s.peek(); lx.Token == RBrace {
			if !s.tcomma {
				s.syntaxError(TrailingComma, lx, "", "trailing comma not allowed")
			}
			s.closeObject(h, s.advance())
			return
		}
	}
}

func (s *Stream) closeObject(h Handler, lx Lexeme) {
	s.depth--
	s.checkError(h.EndObject(lx))
}

// parseArray consumes an array and its elements.
// Precondition: lookahead == LSquare.
func (s *Stream) parseArray(h Handler) {
	open := s.advance()
	s.enter(open)
	s.checkError(h.BeginArray(open))
	if lx := s.peek(); lx.Token == RSquare {
		s.closeArray(h, s.advance())
		return // empty array
	}
	for {
		s.parseValue(h)

		sep := s.require(Comma, RSquare)
		if sep.Token == RSquare {
			s.closeArray(h, sep)
			return
		}
		if lx := s.peek(); lx.Token == RSquare {
			if !s.tcomma {
				s.syntaxError(TrailingComma, lx, "", "trailing comma not allowed")
			}
			s.closeArray(h, s.advance())
			return
		}
	}
}

func (s *Stream) closeArray(h Handler, lx Lexeme) {
	s.depth--
	s.checkError(h.EndArray(lx))
}

// enter records the opening of a nested object or array at lx.
func (s *Stream) enter(lx Lexeme) {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		s.syntaxError(InvalidStructure, lx, "", "nesting depth exceeds %d", s.maxDepth)
	}
}

// peek returns the lookahead lexeme without consuming it.
func (s *Stream) peek() Lexeme {
	if !s.hasLA {
		lx, err := s.s.Next()
		if err != nil {
			panic(err)
		}
		s.la, s.hasLA = lx, true
	}
	return s.la
}

// advance consumes and returns the lookahead lexeme.
func (s *Stream) advance() Lexeme {
	lx := s.peek()
	s.hasLA = false
	return lx
}

// require consumes the next lexeme, which must have one of the given tokens.
func (s *Stream) require(tokens ...Token) Lexeme {
	lx := s.advance()
	if !tokOneOf(lx.Token, tokens) {
		exp := tokLabel(tokens)
		if lx.Token == EOF {
			s.syntaxError(UnexpectedEOF, lx, exp, "unexpected end of input, expected %s", exp)
		}
		s.syntaxError(UnexpectedToken, lx, exp, "expected %s, got %v", exp, lx)
	}
	return lx
}

func (s *Stream) syntaxError(kind ErrorKind, lx Lexeme, expected, msg string, args ...any) {
	serr := &SyntaxError{
		Kind:     kind,
		Pos:      lx.Pos,
		Location: lx.Loc,
		Message:  fmt.Sprintf(msg, args...),
		Expected: expected,
	}
	if kind == UnexpectedToken {
		serr.Found = lx.String()
	}
	panic(serr)
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token) string {
	if len(tokens) == 1 {
		return tokens[0].String()
	}
	last := len(tokens) - 1
	ss := make([]string, last)
	for i, tok := range tokens[:last] {
		ss[i] = tok.String()
	}
	return strings.Join(ss, ", ") + " or " + tokens[last].String()
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}
