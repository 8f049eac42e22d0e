// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/creachadair/jstream/internal/source"
	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	String               // quoted string
	Number               // number
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
	EOF                  // end of input
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	String:  "string",
	Number:  "number",
	True:    "true",
	False:   "false",
	Null:    "null",
	EOF:     "end of input",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Lexeme is a single token of the input together with its location and
// decoded contents. Lexemes are plain values and may be retained freely.
type Lexeme struct {
	Token Token
	Pos   int     // offset of the first character, 0-based
	End   int     // offset after the last character
	Loc   LineCol // line and column of Pos

	// For String, Text is the decoded string without quotes.
	// For all other tokens except EOF it is the source text.
	Text string

	// For Number, the decoded value.
	Num float64
}

// Span returns the location span of x.
func (x Lexeme) Span() Span { return Span{Pos: x.Pos, End: x.End} }

// Bool reports whether x is the constant true.
func (x Lexeme) Bool() bool { return x.Token == True }

// String returns a human-readable description of x, as used in error
// messages.
func (x Lexeme) String() string {
	switch x.Token {
	case String:
		const maxText = 32
		if len(x.Text) > maxText {
			return fmt.Sprintf("string %q...", x.Text[:maxText])
		}
		return fmt.Sprintf("string %q", x.Text)
	case Number:
		return "number " + x.Text
	default:
		return x.Token.String()
	}
}

// A Scanner reads lexical tokens from an input stream. Each call to Next
// returns the next lexeme, or reports an error.
//
// The scanner reads input only as needed to complete the current lexeme, so it
// is suitable for unbounded or slow input streams.
type Scanner struct {
	src *source.Reader
	buf bytes.Buffer // current token text
	err error
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner { return NewScannerSize(r, 0) }

// NewScannerSize constructs a new lexical scanner that consumes input from r
// in chunks of at most chunkSize bytes. If chunkSize <= 0 a default is used.
func NewScannerSize(r io.Reader, chunkSize int) *Scanner {
	return &Scanner{src: source.New(r, chunkSize)}
}

// Err returns the last error reported by Next, or nil.
func (s *Scanner) Err() error { return s.err }

// Pos returns the number of characters consumed from the input so far.
func (s *Scanner) Pos() int { return s.src.Pos() }

// Next advances s to the next lexeme of the input and returns it. When the
// input is exhausted, Next returns a lexeme with token EOF; further calls
// continue to do so. Any error has concrete type *SyntaxError.
//
// After a lexical error the scanner stops at the point where the error was
// detected. Use SkipLine to resume at the start of the following line.
func (s *Scanner) Next() (Lexeme, error) {
	s.buf.Reset()
	s.err = nil

	// Discard whitespace.
	for {
		ch, err := s.src.Peek()
		if err == io.EOF {
			at := s.mark()
			return Lexeme{Token: EOF, Pos: at.pos, End: at.pos, Loc: at.loc}, nil
		} else if err != nil {
			return Lexeme{}, s.ioError(err)
		} else if !isSpace(ch) {
			break
		}
		s.src.Advance()
	}

	at := s.mark()
	ch, _ := s.src.Peek()

	// Handle punctuation.
	if t, ok := selfDelim(ch); ok {
		s.src.Advance()
		return s.lexeme(t, at, string(ch)), nil
	}

	switch {
	case ch == '"':
		return s.scanString(at)
	case isNumStart(ch):
		return s.scanNumber(at)
	case isNameStart(ch):
		return s.scanName(at)
	default:
		return Lexeme{}, s.invalidChar(at, ch, "invalid character %q", ch)
	}
}

// All returns an iterator over the remaining lexemes of the input. The
// sequence ends after the EOF lexeme or the first error.
func (s *Scanner) All() iter.Seq2[Lexeme, error] {
	return func(yield func(Lexeme, error) bool) {
		for {
			lx, err := s.Next()
			if !yield(lx, err) || err != nil || lx.Token == EOF {
				return
			}
		}
	}
}

// SkipLine discards input through the end of the current line. It is used to
// resynchronize the scanner after an error in line-oriented input.
func (s *Scanner) SkipLine() error {
	s.err = nil
	if err := s.src.DiscardLine(); err != nil {
		return s.ioError(err)
	}
	return nil
}

// A mark records a position in the input.
type mark struct {
	pos int
	loc LineCol
}

func (s *Scanner) mark() mark {
	return mark{pos: s.src.Pos(), loc: LineCol{Line: s.src.Line() + 1, Column: s.src.Column()}}
}

func (s *Scanner) lexeme(t Token, at mark, text string) Lexeme {
	return Lexeme{Token: t, Pos: at.pos, End: s.src.Pos(), Loc: at.loc, Text: text}
}

func (s *Scanner) scanString(open mark) (Lexeme, error) {
	s.src.Advance() // the opening quote
	for {
		at := s.mark()
		ch, err := s.src.Advance()
		if err == io.EOF {
			return Lexeme{}, s.failf(UnterminatedString, open, "unterminated string")
		} else if err != nil {
			return Lexeme{}, s.ioError(err)
		}
		switch ch {
		case '"':
			return s.lexeme(String, open, s.buf.String()), nil
		case '\\':
			if err := s.scanEscape(open, at); err != nil {
				return Lexeme{}, err
			}
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape decodes the escape sequence following a backslash at esc, in the
// string that began at open.
func (s *Scanner) scanEscape(open, esc mark) error {
	ch, err := s.src.Advance()
	if err == io.EOF {
		return s.failf(UnterminatedString, open, "unterminated string")
	} else if err != nil {
		return s.ioError(err)
	}
	switch ch {
	case '"', '\\', '/':
		s.buf.WriteRune(ch)
	case 'b':
		s.buf.WriteByte('\b')
	case 'f':
		s.buf.WriteByte('\f')
	case 'n':
		s.buf.WriteByte('\n')
	case 'r':
		s.buf.WriteByte('\r')
	case 't':
		s.buf.WriteByte('\t')
	case 'u':
		r, err := s.readHex4(esc)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r, err = s.readLowSurrogate(esc, r)
			if err != nil {
				return err
			}
		}
		s.buf.WriteRune(r)
	default:
		return s.failf(InvalidEscape, esc, "invalid escape %q", `\`+string(ch))
	}
	return nil
}

// readLowSurrogate reads the second half of a UTF-16 surrogate pair whose
// first half is hi, and returns the combined character.
func (s *Scanner) readLowSurrogate(esc mark, hi rune) (rune, error) {
	for _, want := range []rune{'\\', 'u'} {
		ch, err := s.src.Peek()
		if err != nil && err != io.EOF {
			return 0, s.ioError(err)
		} else if err == io.EOF || ch != want {
			return 0, s.failf(InvalidEscape, esc, "unpaired surrogate %U", hi)
		}
		s.src.Advance()
	}
	lo, err := s.readHex4(esc)
	if err != nil {
		return 0, err
	}
	r := utf16.DecodeRune(hi, lo)
	if r == unicode.ReplacementChar {
		return 0, s.failf(InvalidEscape, esc, "invalid surrogate pair %U %U", hi, lo)
	}
	return r, nil
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns
// their value.
func (s *Scanner) readHex4(esc mark) (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		ch, err := s.src.Advance()
		if err != nil && err != io.EOF {
			return 0, s.ioError(err)
		} else if err == io.EOF {
			return 0, s.failf(InvalidEscape, esc, "incomplete Unicode escape")
		} else if !isHexDigit(ch) {
			return 0, s.failf(InvalidEscape, esc, "invalid Unicode escape: not a hex digit: %q", ch)
		}
		v = v<<4 | hexValue(ch)
	}
	return v, nil
}

func (s *Scanner) scanNumber(at mark) (Lexeme, error) {
	if ch, _ := s.src.Peek(); ch == '-' {
		s.src.Advance()
		s.buf.WriteRune(ch)
	}

	// The integer part must have at least one digit, and may not have extra
	// leading zeroes: 0.12 is OK, 01.2 is not.
	if nr, err := s.readWhile(isDigit); err != nil {
		return Lexeme{}, err
	} else if nr == 0 {
		return Lexeme{}, s.failf(InvalidNumber, at, "invalid number %q: missing digits", s.buf.String())
	} else if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return Lexeme{}, s.failf(InvalidNumber, at, "invalid number %q: extra leading zeroes", s.buf.String())
	}

	// If a decimal point follows, consume a fractional part.
	if ok, err := s.accept(isDot); err != nil {
		return Lexeme{}, err
	} else if ok {
		if nr, err := s.readWhile(isDigit); err != nil {
			return Lexeme{}, err
		} else if nr == 0 {
			return Lexeme{}, s.failf(InvalidNumber, at, "invalid number %q: no digits after decimal point", s.buf.String())
		}
	}

	// If an exponent follows, consume it.
	if ok, err := s.accept(isExpMark); err != nil {
		return Lexeme{}, err
	} else if ok {
		if _, err := s.accept(isSign); err != nil {
			return Lexeme{}, err
		}
		if nr, err := s.readWhile(isDigit); err != nil {
			return Lexeme{}, err
		} else if nr == 0 {
			return Lexeme{}, s.failf(InvalidNumber, at, "invalid number %q: missing exponent digits", s.buf.String())
		}
	}

	text := s.buf.String()
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) {
		return Lexeme{}, s.failf(InvalidNumber, at, "invalid number %q: out of range", text)
	}
	lx := s.lexeme(Number, at, text)
	lx.Num = v
	return lx, nil
}

var constants = [...]struct {
	name mem.RO
	tok  Token
}{
	{mem.S("true"), True},
	{mem.S("false"), False},
	{mem.S("null"), Null},
}

func (s *Scanner) scanName(at mark) (Lexeme, error) {
	first, _ := s.src.Peek()
	if _, err := s.readWhile(unicode.IsLetter); err != nil {
		return Lexeme{}, err
	}
	got := mem.B(s.buf.Bytes())
	for _, c := range constants {
		if got.Equal(c.name) {
			return s.lexeme(c.tok, at, c.name.StringCopy()), nil
		}
	}
	return Lexeme{}, s.invalidChar(at, first, "unknown constant %q", got.StringCopy())
}

// accept consumes the next character into the buffer if it matches f, and
// reports whether it did so.
func (s *Scanner) accept(f func(rune) bool) (bool, error) {
	ch, err := s.src.Peek()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, s.ioError(err)
	} else if !f(ch) {
		return false, nil
	}
	s.src.Advance()
	s.buf.WriteRune(ch)
	return true, nil
}

// readWhile consumes characters matching f from the input until EOF or until
// a character not matching f is found. The non-matching character is not
// consumed. The int reports the number of characters consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, error) {
	var nr int
	for {
		ok, err := s.accept(f)
		if err != nil || !ok {
			return nr, err
		}
		nr++
	}
}

func (s *Scanner) setErr(err *SyntaxError) error {
	s.err = err
	return err
}

func (s *Scanner) failf(kind ErrorKind, at mark, msg string, args ...any) error {
	return s.setErr(&SyntaxError{
		Kind:     kind,
		Pos:      at.pos,
		Location: at.loc,
		Message:  fmt.Sprintf(msg, args...),
	})
}

func (s *Scanner) invalidChar(at mark, ch rune, msg string, args ...any) error {
	return s.setErr(&SyntaxError{
		Kind:     InvalidCharacter,
		Pos:      at.pos,
		Location: at.loc,
		Char:     ch,
		Message:  fmt.Sprintf(msg, args...),
	})
}

func (s *Scanner) ioError(err error) error {
	at := s.mark()
	return s.setErr(&SyntaxError{
		Kind:     IOError,
		Pos:      at.pos,
		Location: at.loc,
		Message:  fmt.Sprintf("reading input: %v", err),
		err:      err,
	})
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool  { return ch == '-' || isDigit(ch) }
func isNameStart(ch rune) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isDigit(ch rune) bool     { return '0' <= ch && ch <= '9' }
func isDot(ch rune) bool       { return ch == '.' }
func isExpMark(ch rune) bool   { return ch == 'e' || ch == 'E' }
func isSign(ch rune) bool      { return ch == '-' || ch == '+' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch >= 'a':
		return ch - 'a' + 10
	case ch >= 'A':
		return ch - 'A' + 10
	default:
		return ch - '0'
	}
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
