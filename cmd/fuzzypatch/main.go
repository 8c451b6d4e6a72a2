// Package main is the entry point for the fuzzypatch CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/fuzzypatch/internal/app"
	"github.com/dshills/fuzzypatch/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.root, opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}
	for _, override := range opts.overrides {
		override(cfg)
	}

	input, err := readInput(opts.patchFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading patch: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{Config: cfg, Root: opts.root})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if _, err := application.Run(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// readInput loads the patch text from a file, or from stdin when the
// path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type cliOptions struct {
	root       string
	configPath string
	patchFile  string

	// overrides carries the flags the user set explicitly, applied on
	// top of the loaded configuration.
	overrides []func(*config.Config)
}

func parseFlags() cliOptions {
	var opts cliOptions
	var (
		dryRun       bool
		backup       bool
		jsonOut      bool
		noColor      bool
		contextLines int
		logLevel     string
		logFile      string
		showVersion  bool
		showHelp     bool
	)

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.root, "root", "", "Workspace root directory (default current directory)")
	flag.StringVar(&opts.root, "C", "", "Workspace root directory (shorthand)")
	flag.BoolVar(&dryRun, "dry-run", false, "Report edits without writing files")
	flag.BoolVar(&dryRun, "n", false, "Report edits without writing files (shorthand)")
	flag.BoolVar(&backup, "backup", false, "Write <file>.bak before modifying a file")
	flag.BoolVar(&backup, "b", false, "Write <file>.bak before modifying a file (shorthand)")
	flag.BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	flag.BoolVar(&noColor, "no-color", false, "Disable colored diff output")
	flag.IntVar(&contextLines, "context", 3, "Context lines in diff output")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Append JSON run logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fuzzypatch - fuzzy patch locator and applier\n\n")
		fmt.Fprintf(os.Stderr, "Usage: fuzzypatch [options] [patch-file]\n\n")
		fmt.Fprintf(os.Stderr, "Reads edit documents from patch-file, or from stdin when the file\n")
		fmt.Fprintf(os.Stderr, "is omitted or \"-\".\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fuzzypatch changes.patch            Apply a patch file\n")
		fmt.Fprintf(os.Stderr, "  fuzzypatch -n changes.patch         Preview without writing\n")
		fmt.Fprintf(os.Stderr, "  fuzzypatch -C ./proj - < edits.txt  Apply from stdin against ./proj\n")
		fmt.Fprintf(os.Stderr, "  fuzzypatch -json changes.patch      Machine-readable report\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("fuzzypatch %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}

	if contextLines < 0 {
		fmt.Fprintf(os.Stderr, "Error: context must be non-negative\n")
		os.Exit(1)
	}

	// Only flags the user actually passed override the configuration.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dry-run", "n":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Apply.DryRun = dryRun })
		case "backup", "b":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Apply.Backup = backup })
		case "json":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Output.JSON = jsonOut })
		case "no-color":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Output.Color = !noColor })
		case "context":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Output.Context = contextLines })
		case "log-level":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Log.Level = logLevel })
		case "log-file":
			opts.overrides = append(opts.overrides, func(c *config.Config) { c.Log.File = logFile })
		}
	})

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one patch file, got %d arguments\n", len(args))
		os.Exit(1)
	}
	if len(args) == 1 {
		opts.patchFile = args[0]
	}

	return opts
}
