// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import "fmt"

// ErrorKind identifies the class of a SyntaxError. An ErrorKind is itself an
// error, so errors.Is(err, jstream.TrailingComma) reports whether err is a
// SyntaxError of that kind.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	UnexpectedEOF      ErrorKind = iota + 1 // input ended inside a value
	InvalidCharacter                        // character does not start any lexeme
	InvalidNumber                           // malformed numeric literal
	UnterminatedString                      // input ended inside a string
	InvalidEscape                           // malformed escape in a string
	UnexpectedToken                         // lexeme not permitted by the grammar here
	TrailingComma                           // comma directly before "}" or "]"
	InvalidStructure                        // structural limit exceeded
	IOError                                 // the input source failed
)

var kindStr = [...]string{
	0:                  "unknown error",
	UnexpectedEOF:      "unexpected end of input",
	InvalidCharacter:   "invalid character",
	InvalidNumber:      "invalid number",
	UnterminatedString: "unterminated string",
	InvalidEscape:      "invalid escape",
	UnexpectedToken:    "unexpected token",
	TrailingComma:      "trailing comma",
	InvalidStructure:   "invalid structure",
	IOError:            "I/O error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[0]
	}
	return kindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// SyntaxError is the concrete type of errors reported by the scanner and the
// stream parser.
type SyntaxError struct {
	Kind     ErrorKind
	Pos      int     // character offset where the problem was detected
	Location LineCol // line and column of Pos
	Message  string

	Char     rune   // the offending character (InvalidCharacter)
	Expected string // description of what the grammar wanted (UnexpectedToken, UnexpectedEOF)
	Found    string // description of what was found (UnexpectedToken)

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s (offset %d): %s", s.Location, s.Pos, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// Is reports whether target is the ErrorKind of s.
func (s *SyntaxError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == s.Kind
}
