// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jstream parses JSON text and prints the values it contains.
//
// Usage:
//
//	jstream [flags] [file]
//
// Input is read from the named file, or from stdin if no file (or "-") is
// given. By default the input must contain exactly one value. With --stream,
// the input may contain any number of whitespace-separated values, and each
// is printed on its own line. Every flag may also be set from an environment
// variable named JSTREAM_<FLAG>, for example JSTREAM_MAX_DEPTH=64.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jstream: %v\n", err)
		os.Exit(1)
	}
}
