// Package app wires patch parsing, matching, and application into a
// single run over a workspace of files.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/fuzzypatch/internal/config"
	"github.com/dshills/fuzzypatch/internal/engine/buffer"
	"github.com/dshills/fuzzypatch/internal/engine/patch"
)

// Options configures the application.
type Options struct {
	// Config is the run configuration. Nil means defaults.
	Config *config.Config

	// Root is the workspace root directory. Empty means the current
	// directory.
	Root string

	// Stdout is the report destination. Nil means os.Stdout.
	Stdout io.Writer

	// Logger is the run logger. Nil means one is built from Config and
	// closed by Close.
	Logger *Logger
}

// App coordinates a patch run: it parses edit documents, applies them
// to workspace documents, saves the results, and writes a report.
type App struct {
	cfg *config.Config
	ws  *Workspace
	log *Logger
	out io.Writer

	ownsLogger bool
}

// New creates an application from options.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	ws, err := NewWorkspace(opts.Root)
	if err != nil {
		return nil, err
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	log := opts.Logger
	ownsLogger := false
	if log == nil {
		log, err = NewLogger(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		ownsLogger = true
	}

	return &App{
		cfg:        cfg,
		ws:         ws,
		log:        log,
		out:        out,
		ownsLogger: ownsLogger,
	}, nil
}

// Workspace returns the workspace the app operates on.
func (a *App) Workspace() *Workspace {
	return a.ws
}

// Close flushes the logger if the app created it.
func (a *App) Close() {
	if a.ownsLogger {
		a.log.Close()
	}
}

// Run applies every edit document in input to the workspace and writes
// a report. Documents are applied in order, and later documents that
// reference the same file see the edits of earlier ones. Nothing is
// written to disk until every document has applied cleanly, and not at
// all in dry-run mode.
func (a *App) Run(input string) (*Report, error) {
	docs, err := patch.SplitDocuments(input)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	a.log.RunStarted(len(docs))

	report := &Report{DryRun: a.cfg.Apply.DryRun}
	for _, doc := range docs {
		result, err := a.applyDocument(doc)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, result)
		report.TotalEdits += len(result.Edits)
	}

	if !a.cfg.Apply.DryRun {
		saved, err := a.ws.SaveModified(a.cfg.Apply.Backup)
		if err != nil {
			return nil, err
		}
		for _, doc := range saved {
			a.log.FileSaved(doc.Rel, a.cfg.Apply.Backup)
		}
		report.SavedFiles = len(saved)
	}

	a.log.RunFinished(len(report.Files), report.TotalEdits, report.DryRun)

	if err := a.writeReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// applyDocument locates and applies a single edit document against the
// workspace document it names.
func (a *App) applyDocument(doc string) (FileResult, error) {
	var target *Document
	resolve := func(path string) (*buffer.Snapshot, []buffer.Range, bool) {
		d, err := a.ws.Open(path)
		if err != nil {
			a.log.OpenFailed(path, err)
			return nil, nil, false
		}
		target = d
		return d.Buffer.Snapshot(), nil, true
	}

	snap, anchored, err := patch.Apply(doc, resolve)
	if err != nil {
		a.log.DocumentFailed(targetPath(target), err)
		return FileResult{}, err
	}

	resolved, err := target.Buffer.ApplyAnchored(anchored)
	if err != nil {
		err = fmt.Errorf("applying edits to %s: %w", target.Rel, err)
		a.log.DocumentFailed(target.Rel, err)
		return FileResult{}, err
	}
	if len(resolved) > 0 {
		target.SetModified(true)
	}

	result := FileResult{
		Path:   target.Rel,
		Edits:  make([]EditResult, 0, len(resolved)),
		before: snap.Text(),
		after:  target.Buffer.Text(),
	}
	for _, e := range resolved {
		result.Edits = append(result.Edits, newEditResult(snap, e))
	}

	a.log.DocumentApplied(target.Rel, len(result.Edits))
	return result, nil
}

func targetPath(d *Document) string {
	if d == nil {
		return ""
	}
	return d.Rel
}
