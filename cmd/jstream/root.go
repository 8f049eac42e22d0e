// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/ast"
	"github.com/creachadair/jstream/internal/source"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tailscale/hujson"
)

// options are the settings for one run of the command, after merging flags
// and environment.
type options struct {
	Stream       bool
	ValidateOnly bool
	Pretty       bool
	Indent       string
	Resync       bool
	MaxDepth     int
	ChunkSize    int
	HuJSON       bool
	LogLevel     zerolog.Level
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "jstream [flags] [file]",
		Short: "Parse JSON text and print the values it contains",
		Long: `Parse JSON text and print the values it contains.

Input is read from the named file, or from stdin if no file (or "-") is given.
Values are printed in compact form with object keys sorted, or indented with
--pretty. Syntax errors are reported with their line, column, and character
offset.

Every flag may also be set from the environment as JSTREAM_<FLAG>, with dashes
replaced by underscores (for example JSTREAM_MAX_DEPTH=64).`,
		Example: `  # Validate a single document
  jstream --validate-only config.json

  # Reformat a log of line-delimited JSON, skipping bad lines
  jstream --stream --resync --pretty events.jsonl

  # Read JSON with comments and trailing commas
  jstream --hujson settings.jwcc`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	addFlags(flags)
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("JSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// addFlags defines the command-line flags in fs. Each flag name is also the
// configuration key for that setting.
func addFlags(fs *pflag.FlagSet) {
	fs.Bool("stream", false, "parse any number of whitespace-separated values")
	fs.Bool("validate-only", false, "check syntax and print a summary instead of values")
	fs.Bool("pretty", false, "print values indented, one member or element per line")
	fs.String("indent", "  ", "indentation for each nesting level with --pretty")
	fs.Bool("resync", false, "in stream mode, continue with the next line after an error")
	fs.Int("max-depth", jstream.DefaultMaxDepth, "maximum nesting depth of objects and arrays (0 for no limit)")
	fs.String("chunk-size", humanizeBytes(source.DefaultChunkSize), "maximum size of an input chunk (e.g. 512B, 64KiB)")
	fs.Bool("hujson", false, "accept HuJSON input (comments and trailing commas)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

func humanizeBytes(n int) string {
	return strings.ReplaceAll(humanize.IBytes(uint64(n)), " ", "")
}

// loadOptions reads and checks the settings from v.
func loadOptions(v *viper.Viper) (*options, error) {
	opts := &options{
		Stream:       v.GetBool("stream"),
		ValidateOnly: v.GetBool("validate-only"),
		Pretty:       v.GetBool("pretty"),
		Indent:       v.GetString("indent"),
		Resync:       v.GetBool("resync"),
		MaxDepth:     v.GetInt("max-depth"),
		HuJSON:       v.GetBool("hujson"),
	}
	size, err := humanize.ParseBytes(v.GetString("chunk-size"))
	if err != nil {
		return nil, fmt.Errorf("invalid --chunk-size: %w", err)
	} else if size == 0 || size > 1<<30 {
		return nil, fmt.Errorf("invalid --chunk-size: %d bytes is out of range", size)
	}
	opts.ChunkSize = int(size)

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v.GetString("log-level"))))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	opts.LogLevel = lvl

	if opts.Resync && !opts.Stream {
		return nil, errors.New("--resync requires --stream")
	}
	return opts, nil
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	console := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.NoColor = true
		cw.TimeFormat = "15:04:05"
	})
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	log := newLogger(cmd.ErrOrStderr(), opts.LogLevel)

	name, in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	counter := &countingReader{r: in}
	var input io.Reader = counter
	if opts.HuJSON {
		// Standardize replaces comments and trailing commas with whitespace, so
		// error locations still refer to the original text.
		data, err := io.ReadAll(counter)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			return fmt.Errorf("standardize %s: %w", name, err)
		}
		input = bytes.NewReader(std)
	}

	st := jstream.NewStreamWithScanner(jstream.NewScannerSize(input, opts.ChunkSize))
	st.SetMaxDepth(opts.MaxDepth)
	if opts.Resync {
		st.SetErrorPolicy(jstream.ResyncLine)
	}
	rd := ast.NewReaderWithStream(st)

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	log.Debug().Str("input", name).Int("chunkSize", opts.ChunkSize).Bool("stream", opts.Stream).Msg("start")
	start := time.Now()

	var numValues, numErrors int
	emit := func(v ast.Value) error {
		numValues++
		if opts.ValidateOnly {
			return nil
		}
		if err := writeValue(out, v, opts); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if !opts.Stream {
		v, err := rd.ParseSingle()
		if err != nil {
			logSyntaxError(log, name, 1, err)
			return fmt.Errorf("parse %s: %w", name, err)
		}
		if err := emit(v); err != nil {
			return err
		}
	} else {
		doc := 0
		for v, err := range rd.All() {
			doc++
			if err != nil {
				numErrors++
				logSyntaxError(log, name, doc, err)
				continue
			}
			if err := emit(v); err != nil {
				return err
			}
		}
	}

	log.Debug().
		Int("values", numValues).
		Int("errors", numErrors).
		Int64("bytes", counter.n).
		Dur("elapsed", time.Since(start)).
		Msg("done")

	if opts.ValidateOnly {
		fmt.Fprintf(out, "%s: %s values, %s read",
			name, humanize.Comma(int64(numValues)), humanize.Bytes(uint64(counter.n)))
		if numErrors > 0 {
			fmt.Fprintf(out, ", %s invalid", humanize.Comma(int64(numErrors)))
		}
		fmt.Fprintln(out)
	}
	if numErrors > 0 {
		return fmt.Errorf("%s: %d invalid documents", name, numErrors)
	}
	return nil
}

func openInput(cmd *cobra.Command, args []string) (string, io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return "<stdin>", io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", nil, err
	}
	return args[0], f, nil
}

func writeValue(w *bufio.Writer, v ast.Value, opts *options) error {
	indent := ""
	if opts.Pretty {
		indent = opts.Indent
	}
	if err := ast.Format(w, v, indent); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// logSyntaxError logs err, which occurred while parsing document doc of the
// named input.
func logSyntaxError(log zerolog.Logger, name string, doc int, err error) {
	ev := log.Error().Str("input", name).Int("doc", doc)
	var serr *jstream.SyntaxError
	if errors.As(err, &serr) {
		ev = ev.Stringer("kind", serr.Kind).
			Int("line", serr.Location.Line).
			Int("column", serr.Location.Column).
			Int("offset", serr.Pos)
		if serr.Expected != "" {
			ev = ev.Str("expected", serr.Expected)
		}
		if serr.Found != "" {
			ev = ev.Str("found", serr.Found)
		}
		ev.Msg(serr.Message)
		return
	}
	ev.Err(err).Msg("invalid document")
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
