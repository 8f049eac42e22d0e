// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/creachadair/jstream"
)

func ExampleScanner() {
	s := jstream.NewScanner(strings.NewReader(`{"name": "☃", "n": [1.5, true]}`))
	for lx, err := range s.All() {
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Println(lx.Loc, lx)
	}
	// Output:
	// 1:0 "{"
	// 1:1 string "name"
	// 1:7 ":"
	// 1:9 string "☃"
	// 1:12 ","
	// 1:14 string "n"
	// 1:17 ":"
	// 1:19 "["
	// 1:20 number 1.5
	// 1:23 ","
	// 1:25 true
	// 1:29 "]"
	// 1:30 "}"
	// 1:31 end of input
}

func ExampleUnquote() {
	s, err := jstream.Unquote(`"snow☃man\n"`)
	if err != nil {
		log.Fatalf("Unquote failed: %v", err)
	}
	fmt.Printf("%q\n", s)
	fmt.Println(jstream.Quote(s))
	// Output:
	// "snow☃man\n"
	// "snow☃man\n"
}
