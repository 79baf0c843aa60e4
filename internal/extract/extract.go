// Package extract walks a folder of inspection reports and mines metadata
// from each document through the model backend, persisting the results
// workbook as it goes.
package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pdiddy/audit-miner/internal/analyze"
	"github.com/pdiddy/audit-miner/internal/docxtext"
	"github.com/pdiddy/audit-miner/internal/resultsheet"
	"github.com/pdiddy/audit-miner/pkg/types"
)

// Runner holds the per-run collaborators: the model backend, the text cap,
// and the progress writer. Construct once per run and pass to Run.
type Runner struct {
	Backend    analyze.AIBackend
	MaxTextLen int
	Out        io.Writer
}

// BatchSummary holds counts from an extraction run.
type BatchSummary struct {
	// Processed documents yielded model-derived metadata.
	Processed int
	// Empty documents had no readable text and received the sentinel tuple.
	Empty int
	// Failed documents hit a model or parse failure and received the
	// sentinel tuple.
	Failed int
}

// Total returns the number of documents seen.
func (s BatchSummary) Total() int {
	return s.Processed + s.Empty + s.Failed
}

// HasFailures reports whether any document degraded to defaults.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run processes every .docx under inputDir (recursively, extension matched
// case-insensitively) and rewrites the results workbook after each
// document, so the file on disk never lags more than one document behind.
// Per-document failures degrade to sentinel rows and are counted, never
// returned; the error return covers enumeration and persistence only.
//
// When no documents match, the workbook is written with a single blank
// placeholder row.
func (r *Runner) Run(ctx context.Context, inputDir, resultsPath string) (BatchSummary, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	maxLen := r.MaxTextLen
	if maxLen <= 0 {
		maxLen = docxtext.DefaultMaxLen
	}

	files, err := listReports(inputDir)
	if err != nil {
		return BatchSummary{}, err
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "no .docx files found in %s\n", inputDir)
		if err := resultsheet.WritePlaceholder(resultsPath); err != nil {
			return BatchSummary{}, err
		}
		return BatchSummary{}, nil
	}

	fmt.Fprintf(out, "found %d .docx files in %s\n", len(files), inputDir)

	var summary BatchSummary
	var rows []types.ReportRecord

	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := filepath.Base(path)

		text, truncated, readErr := docxtext.FromFile(path, maxLen)
		if readErr != nil {
			// Unreadable documents are treated as having no content.
			fmt.Fprintf(out, "unreadable %s: %v\n", name, readErr)
			text = ""
		}
		if truncated {
			fmt.Fprintf(out, "truncated %s to %d characters\n", name, maxLen)
		}

		md, analyzeErr := analyze.Analyze(ctx, r.Backend, text)
		rows = append(rows, types.ReportRecord{Filename: name, ReportMetadata: md})

		if err := resultsheet.Write(resultsPath, rows); err != nil {
			return summary, fmt.Errorf("persisting results after %s: %w", name, err)
		}

		switch {
		case text == "":
			fmt.Fprintf(out, "empty   %s\n", name)
			summary.Empty++
		case analyzeErr != nil:
			fmt.Fprintf(out, "failed  %s: %v\n", name, analyzeErr)
			summary.Failed++
		default:
			fmt.Fprintf(out, "processed %s\n", name)
			summary.Processed++
		}
	}

	fmt.Fprintf(out, "\nprocessed: %d, empty: %d, failed: %d\n",
		summary.Processed, summary.Empty, summary.Failed)

	return summary, nil
}

// listReports walks inputDir and returns every .docx path, matching the
// extension case-insensitively. Office lock files ("~$...") are skipped.
func listReports(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".docx") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input directory %s: %w", inputDir, err)
	}
	return files, nil
}
