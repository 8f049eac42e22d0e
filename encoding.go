// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"strings"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Unquote reports an error if src is not exactly one valid string literal,
// optionally surrounded by whitespace.
func Unquote(src string) (string, error) {
	s := NewScanner(strings.NewReader(src))
	lx, err := s.Next()
	if err != nil {
		return "", err
	} else if lx.Token != String {
		return "", fmt.Errorf("got %v, want string", lx)
	}
	if end, err := s.Next(); err != nil {
		return "", err
	} else if end.Token != EOF {
		return "", fmt.Errorf("unexpected %v after string", end)
	}
	return lx.Text, nil
}
