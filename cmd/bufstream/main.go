// Package main is the entry point for the bufstream exporter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/bufstream/internal/config"
	"github.com/dshills/bufstream/internal/encoding/charset"
	"github.com/dshills/bufstream/internal/export"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the parsed command line.
type options struct {
	input       string
	output      string
	configPath  string
	watch       bool
	verbose     bool
	jsonSummary bool
	showVersion bool

	// Export settings; applied over the loaded configuration only when the
	// flag was given.
	charset         string
	newline         string
	trailingNewline bool
	bom             bool
	set             map[string]bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "bufstream %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	settings, err := loadSettings(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := settings.Level()
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	exportOpts := export.FromSettings(settings)

	if opts.watch {
		if opts.output == "" || opts.output == "-" {
			fmt.Fprintf(stderr, "Error: -watch needs an output file (-o)\n")
			return 2
		}
		logger.Info("watching", "src", opts.input, "dst", opts.output)
		if err := export.Watch(ctx, opts.input, opts.output, exportOpts, export.WithLogger(logger)); err != nil {
			logger.Error("watch failed", "error", err)
			return 1
		}
		return 0
	}

	buf, err := export.LoadFile(opts.input)
	if err != nil {
		logger.Error("loading input", "path", opts.input, "error", err)
		return 1
	}

	var res export.Result
	if opts.output == "" || opts.output == "-" {
		if isTerminal(stdout) && !charset.IsUTF8(settings.Charset) {
			logger.Warn("writing non UTF-8 output to a terminal", "charset", settings.Charset)
		}
		res, err = export.Write(ctx, stdout, buf, exportOpts)
	} else {
		res, err = export.SaveFile(ctx, opts.output, buf, exportOpts)
	}
	if err != nil {
		logger.Error("export failed", "path", opts.input, "error", err)
		return 1
	}

	logger.Debug("exported",
		"id", res.ID,
		"src", opts.input,
		"dst", res.Path,
		"bytes", res.Bytes,
		"charset", res.Charset,
		"newline", res.Newline,
		"duration", res.Duration,
	)

	if opts.jsonSummary {
		summary, err := summaryJSON(opts.input, res)
		if err != nil {
			logger.Error("encoding summary", "error", err)
			return 1
		}
		fmt.Fprintf(stderr, "%s\n", summary)
	}
	return 0
}

// summaryJSON describes a finished export as one line of JSON.
func summaryJSON(input string, res export.Result) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"id", res.ID.String()},
		{"input", input},
		{"output", res.Path},
		{"bytes", res.Bytes},
		{"charset", res.Charset},
		{"newline", res.Newline.String()},
		{"revision", uint64(res.Revision)},
		{"durationMs", res.Duration.Milliseconds()},
	}

	summary := []byte(`{}`)
	for _, f := range fields {
		var err error
		if summary, err = sjson.SetBytes(summary, f.path, f.value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", f.path, err)
		}
	}
	return summary, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("bufstream", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.output, "o", "", "Output file (default stdout)")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.charset, "charset", "", "Target charset (default UTF-8)")
	fs.StringVar(&opts.newline, "newline", "", "Line breaks to write: lf, cr, crlf or auto (default lf)")
	fs.BoolVar(&opts.trailingNewline, "trailing-newline", false, "End non-empty output with a line break")
	fs.BoolVar(&opts.bom, "bom", false, "Write a byte order mark for UTF-8 and UTF-16")
	fs.BoolVar(&opts.watch, "watch", false, "Re-export whenever the input changes")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.jsonSummary, "json", false, "Print a JSON summary of the export to stderr")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "bufstream - export text in another charset and newline style\n\n")
		fmt.Fprintf(stderr, "Usage: bufstream [options] <input>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  bufstream -newline crlf notes.txt              Print with CRLF line breaks\n")
		fmt.Fprintf(stderr, "  bufstream -charset latin1 -o out.txt in.txt   Save as ISO-8859-1\n")
		fmt.Fprintf(stderr, "  bufstream -watch -bom -o out.txt in.txt       Keep out.txt in sync\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if opts.showVersion {
		return opts, nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	opts.input = fs.Arg(0)

	return opts, nil
}

// loadSettings merges defaults, the configuration file, the environment
// and the flags that were given.
func loadSettings(ctx context.Context, opts options) (config.Settings, error) {
	cfg := config.New(config.WithFile(opts.configPath))
	if err := cfg.Load(ctx); err != nil {
		return config.Settings{}, fmt.Errorf("loading configuration: %w", err)
	}

	overrides := map[string]any{
		"charset":          opts.charset,
		"newline":          opts.newline,
		"trailing-newline": opts.trailingNewline,
		"bom":              opts.bom,
	}
	paths := map[string]string{
		"charset":          "export.charset",
		"newline":          "export.newline",
		"trailing-newline": "export.trailingNewline",
		"bom":              "export.bom",
	}
	for name, value := range overrides {
		if !opts.set[name] {
			continue
		}
		if err := cfg.Set(paths[name], value); err != nil {
			return config.Settings{}, err
		}
	}

	return cfg.Settings()
}
