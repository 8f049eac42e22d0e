// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements an incremental JSON scanner and parser.
//
// Input is consumed from an io.Reader one chunk at a time, where a chunk is a
// line of text or a bounded number of bytes, so unbounded streams of JSON
// documents can be processed without buffering them whole. Locations in
// lexemes and errors count characters (Unicode code points), not bytes.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a scanner
// from an io.Reader and call its Next method to read lexemes. Each Lexeme
// records its token, its location, and its decoded contents:
//
//	s := jstream.NewScanner(input)
//	for lx, err := range s.All() {
//	   if err != nil {
//	      log.Fatalf("Scanning failed: %v", err)
//	   }
//	   log.Printf("Next token: %v at %v", lx.Token, lx.Loc)
//	}
//
// At the end of the input, Next returns a lexeme with token EOF. Any error
// has concrete type *jstream.SyntaxError.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON. The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jstream.SyntaxError is returned.
//
// Construct a Stream from an io.Reader, and call its Parse method. Parse
// returns nil if the input was fully processed without error. If a Handler
// method reports an error, parsing stops and that error is returned.
//
//	s := jstream.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// To parse a single value from the front of the input, call ParseOne. This
// method returns io.EOF if no further values are available:
//
//	if err := s.ParseOne(handler); err == io.EOF {
//	   log.Print("No more input")
//	} else if err != nil {
//	   log.Printf("ParseOne failed: %v", err)
//	}
//
// ParseSingle parses exactly one value and requires that nothing but
// whitespace follows it.
//
// By default the first error stops a Stream for good. For line-delimited
// input, SetErrorPolicy(ResyncLine) makes the stream skip the rest of the
// offending line and continue with the next.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed the Lexeme that triggered the event. See the comments
// on the Handler type for the meaning of each method's lexeme.
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
//
// # Errors
//
// Every SyntaxError carries an ErrorKind. Kinds are themselves errors, so a
// caller can test for one with errors.Is:
//
//	if errors.Is(err, jstream.TrailingComma) { ... }
//
// To build values in memory, see package ast.
package jstream
