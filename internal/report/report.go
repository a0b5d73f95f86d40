// Package report writes the generated analysis to disk: an xlsx workbook
// with charts, a markdown rendition for the preview server, the summary as
// JSON, and a run manifest tying the outputs to their inputs.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pubreport/internal"
	"pubreport/internal/errors"
	"pubreport/internal/summary"
)

// Output file names, relative to the output directory
const (
	WorkbookFile = "report.xlsx"
	MarkdownFile = "summary.md"
	SummaryFile  = "summary.json"
	ManifestFile = "manifest.json"
)

// Writer renders one report run into an output directory
type Writer struct {
	outDir  string
	palette Palette
	logger  *internal.Logger
}

// NewWriter creates a writer for outDir. A nil palette falls back to the
// default colors.
func NewWriter(outDir string, pal Palette) *Writer {
	if pal == nil {
		pal = DefaultPalette()
	}
	return &Writer{
		outDir:  outDir,
		palette: pal,
		logger:  internal.DefaultLogger,
	}
}

// Write renders the workbook, markdown, and JSON outputs, then writes the
// run manifest. Returns the manifest describing the run.
func (w *Writer) Write(s *summary.Summary, meta Meta) (*Manifest, error) {
	if s == nil {
		return nil, errors.InvalidArgument("summary is nil")
	}
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	if err := WriteWorkbook(filepath.Join(w.outDir, WorkbookFile), s, w.palette); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(w.outDir, MarkdownFile), RenderMarkdown(s), 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write markdown summary")
	}

	summaryJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal summary")
	}
	if err := os.WriteFile(filepath.Join(w.outDir, SummaryFile), summaryJSON, 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write summary JSON")
	}

	manifest := newManifest(meta, []string{WorkbookFile, MarkdownFile, SummaryFile})
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(w.outDir, ManifestFile), manifestJSON, 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write manifest")
	}

	w.logger.Info("report %s written to %s (%d rows)", manifest.RunID, w.outDir, meta.Rows)
	return manifest, nil
}
