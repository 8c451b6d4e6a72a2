package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// Report summarizes a patch run.
type Report struct {
	DryRun     bool         `json:"dry_run"`
	Files      []FileResult `json:"files"`
	TotalEdits int          `json:"total_edits"`
	SavedFiles int          `json:"saved_files"`
}

// FileResult describes the outcome of one edit document.
type FileResult struct {
	Path  string       `json:"path"`
	Edits []EditResult `json:"edits"`

	// before and after capture the document text around this edit
	// document, for diff rendering.
	before string
	after  string
}

// EditResult describes a single applied edit in 1-based line/column
// coordinates of the pre-edit document.
type EditResult struct {
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
	NewText   string `json:"new_text"`
}

func newEditResult(snap *buffer.Snapshot, e buffer.Edit) EditResult {
	start := snap.OffsetToPoint(e.Range.Start)
	end := snap.OffsetToPoint(e.Range.End)
	return EditResult{
		StartLine: start.Line + 1,
		StartCol:  start.Column + 1,
		EndLine:   end.Line + 1,
		EndCol:    end.Column + 1,
		NewText:   e.NewText,
	}
}

// writeReport renders the report as JSON or as colorized unified diffs,
// per the output configuration.
func (a *App) writeReport(r *Report) error {
	if a.cfg.Output.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	pal := newPalette(a.cfg.Output.Color)
	for i := range r.Files {
		if err := writeFileDiff(a.out, pal, &r.Files[i], a.cfg.Output.Context); err != nil {
			return err
		}
	}
	return writeSummary(a.out, r)
}

// palette holds the diff rendering styles. Disabled palettes print
// plain text.
type palette struct {
	header *color.Color
	hunk   *color.Color
	add    *color.Color
	del    *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	if !enabled {
		for _, c := range []*color.Color{p.header, p.hunk, p.add, p.del} {
			c.DisableColor()
		}
	}
	return p
}

func writeFileDiff(w io.Writer, pal *palette, f *FileResult, context int) error {
	if f.before == f.after {
		_, err := fmt.Fprintf(w, "%s: no changes\n", f.Path)
		return err
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(f.before),
		B:        difflib.SplitLines(f.after),
		FromFile: "a/" + f.Path,
		ToFile:   "b/" + f.Path,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Errorf("rendering diff for %s: %w", f.Path, err)
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		var c *color.Color
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			c = pal.header
		case strings.HasPrefix(line, "@@"):
			c = pal.hunk
		case strings.HasPrefix(line, "+"):
			c = pal.add
		case strings.HasPrefix(line, "-"):
			c = pal.del
		}
		if c != nil {
			_, err = c.Fprint(w, line)
		} else {
			_, err = fmt.Fprint(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w io.Writer, r *Report) error {
	var err error
	if r.DryRun {
		_, err = fmt.Fprintf(w, "Dry run: %d edit(s) across %d file(s), nothing written\n",
			r.TotalEdits, len(r.Files))
	} else {
		_, err = fmt.Fprintf(w, "Applied %d edit(s) across %d file(s)\n",
			r.TotalEdits, len(r.Files))
	}
	return err
}
