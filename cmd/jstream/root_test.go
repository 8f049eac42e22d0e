// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

// runCommand executes the root command with the given stdin and arguments,
// and returns what it wrote to stdout and stderr.
func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	if args == nil {
		args = []string{} // nil makes cobra read os.Args
	}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"Compact", ` {"b": [1, 2], "a": true} `, nil, `{"a":true,"b":[1,2]}` + "\n"},
		{"Pretty", `[1,{"x":null}]`, []string{"--pretty", "--indent", "\t"},
			"[\n\t1,\n\t{\n\t\t\"x\": null\n\t}\n]\n"},
		{"PrettyDefault", `{"a":{}}`, []string{"--pretty"}, "{\n  \"a\": {}\n}\n"},
		{"Stream", "1\n\"two\" [3]\n{}", []string{"--stream"}, "1\n\"two\"\n[3]\n{}\n"},
		{"StreamEmpty", "  \n ", []string{"--stream"}, ""},
		{"StdinDash", `"x"`, []string{"-"}, "\"x\"\n"},
		{"SmallChunks", `{"key": "` + strings.Repeat("☃", 40) + `"}`, []string{"--chunk-size", "16B"},
			`{"key":"` + strings.Repeat("☃", 40) + `"}` + "\n"},
		{"HuJSON", "{\n  // comment\n  \"a\": [1, 2,], /* more */\n}", []string{"--hujson"}, `{"a":[1,2]}` + "\n"},
		{"Validate", `{"a":1} [2] "x"`, []string{"--stream", "--validate-only"},
			"<stdin>: 3 values, 15 B read\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, stderr, err := runCommand(t, tc.input, tc.args...)
			if err != nil {
				t.Fatalf("Execute: unexpected error: %v\nstderr:\n%s", err, stderr)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Output (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	const input = "[1]\n[2,]\n[3]\n"

	t.Run("Single", func(t *testing.T) {
		out, stderr, err := runCommand(t, "1 2")
		if !errors.Is(err, jstream.UnexpectedToken) {
			t.Errorf("Execute: got %v, want %v", err, jstream.UnexpectedToken)
		}
		if out != "" {
			t.Errorf("Output: got %q, want empty", out)
		}
		if !strings.Contains(stderr, "doc=1") || !strings.Contains(stderr, "offset=2") {
			t.Errorf("Log does not describe the error:\n%s", stderr)
		}
	})

	t.Run("StreamStops", func(t *testing.T) {
		out, stderr, err := runCommand(t, input, "--stream")
		if err == nil || !strings.Contains(err.Error(), "1 invalid documents") {
			t.Errorf("Execute: got %v, want 1 invalid document", err)
		}
		if diff := cmp.Diff("[1]\n", out); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
		if !strings.Contains(stderr, "trailing comma not allowed") || !strings.Contains(stderr, "doc=2") {
			t.Errorf("Log does not describe the error:\n%s", stderr)
		}
	})

	t.Run("StreamResync", func(t *testing.T) {
		out, _, err := runCommand(t, input, "--stream", "--resync")
		if err == nil || !strings.Contains(err.Error(), "1 invalid documents") {
			t.Errorf("Execute: got %v, want 1 invalid document", err)
		}
		if diff := cmp.Diff("[1]\n[3]\n", out); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
	})

	t.Run("ValidateSummary", func(t *testing.T) {
		out, _, err := runCommand(t, input, "--stream", "--resync", "--validate-only")
		if err == nil {
			t.Error("Execute: got nil, want error")
		}
		if diff := cmp.Diff("<stdin>: 2 values, 13 B read, 1 invalid\n", out); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
	})
}

func TestEnvironment(t *testing.T) {
	t.Setenv("JSTREAM_PRETTY", "true")
	t.Setenv("JSTREAM_MAX_DEPTH", "2")

	out, _, err := runCommand(t, `{"a":[1]}`)
	if err != nil {
		t.Fatalf("Execute: unexpected error: %v", err)
	}
	if diff := cmp.Diff("{\n  \"a\": [\n    1\n  ]\n}\n", out); diff != "" {
		t.Errorf("Output (-want, +got):\n%s", diff)
	}

	if _, _, err := runCommand(t, `{"a":[[1]]}`); !errors.Is(err, jstream.InvalidStructure) {
		t.Errorf("Execute: got %v, want %v", err, jstream.InvalidStructure)
	}

	// Flags override the environment.
	if _, _, err := runCommand(t, `{"a":[[1]]}`, "--max-depth", "3"); err != nil {
		t.Errorf("Execute: unexpected error: %v", err)
	}
}

func TestFileInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte("[true, false]\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out, _, err := runCommand(t, "ignored", path)
	if err != nil {
		t.Fatalf("Execute: unexpected error: %v", err)
	}
	if out != "[true,false]\n" {
		t.Errorf("Output: got %q, want %q", out, "[true,false]\n")
	}

	if _, _, err := runCommand(t, "", filepath.Join(t.TempDir(), "nonesuch.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Execute: got %v, want %v", err, os.ErrNotExist)
	}
}

func TestBadFlags(t *testing.T) {
	tests := [][]string{
		{"--chunk-size", "bogus"},
		{"--chunk-size", "0"},
		{"--log-level", "loud"},
		{"--resync"},
		{"a.json", "b.json"},
	}
	for _, args := range tests {
		if _, _, err := runCommand(t, "null", args...); err == nil {
			t.Errorf("Execute %q: got nil, want error", args)
		} else {
			t.Logf("Execute %q: got expected error: %v", args, err)
		}
	}
}
