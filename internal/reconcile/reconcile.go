// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile compares the documents on disk against the rows in a
// results workbook and quarantines anything the extraction run missed.
package reconcile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/audit-miner/internal/resultsheet"
	"github.com/pdiddy/audit-miner/pkg/types"
)

const (
	comparisonFile = "comparison_output.xlsx"
	unprocessedDir = "Unprocessed"
	missingSheet   = "Missing_Files"
	extraSheet     = "Extra_Files"
	missingHeader  = "Missing in results.xlsx"
	extraHeader    = "Extra in results.xlsx"
)

// Summary counts the outcome of one reconciliation pass.
type Summary struct {
	Missing int
	Extra   int
	Copied  int
}

// Run diffs the .docx files directly under cfg.InputDir against the
// filename column of cfg.ResultsFile. Both sides are compared by stem so
// a results row recorded with a different extension still matches. The
// comparison workbook is written to cfg.OutputDir and every missing
// document is copied into an Unprocessed folder beneath it.
func Run(cfg types.ReconcileConfig, w io.Writer) (Summary, error) {
	var summary Summary

	inputFiles, err := listInputs(cfg.InputDir)
	if err != nil {
		return summary, err
	}
	processed, err := resultsheet.ReadProcessed(cfg.ResultsFile)
	if err != nil {
		return summary, fmt.Errorf("reading results: %w", err)
	}

	inputStems := map[string]string{} // stem → filename on disk
	for _, name := range inputFiles {
		inputStems[stem(name)] = name
	}
	resultStems := map[string]string{} // stem → recorded filename
	for _, name := range processed {
		resultStems[stem(name)] = name
	}

	// Both sheets list stems, matching how the sets were compared.
	var missing, extra []string
	for s := range inputStems {
		if _, ok := resultStems[s]; !ok {
			missing = append(missing, s)
		}
	}
	for s := range resultStems {
		if _, ok := inputStems[s]; !ok {
			extra = append(extra, s)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	summary.Missing = len(missing)
	summary.Extra = len(extra)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating output dir: %w", err)
	}
	comparisonPath := filepath.Join(cfg.OutputDir, comparisonFile)
	if err := writeComparison(comparisonPath, missing, extra); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "wrote %s: %d missing, %d extra\n", comparisonPath, len(missing), len(extra))

	if len(missing) > 0 {
		quarantine := filepath.Join(cfg.OutputDir, unprocessedDir)
		if err := os.MkdirAll(quarantine, 0o755); err != nil {
			return summary, fmt.Errorf("creating quarantine dir: %w", err)
		}
		for _, s := range missing {
			name := inputStems[s]
			src := filepath.Join(cfg.InputDir, name)
			dst := filepath.Join(quarantine, name)
			if err := copyFile(src, dst); err != nil {
				return summary, fmt.Errorf("copying %s: %w", name, err)
			}
			summary.Copied++
			fmt.Fprintf(w, "copied  %s\n", name)
		}
	}
	return summary, nil
}

// listInputs returns .docx filenames directly under dir, skipping Office
// lock files. Subdirectories are not descended; reconciliation reports on
// the run folder as the operator sees it.
func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".docx") {
			names = append(names, name)
		}
	}
	return names, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func writeComparison(path string, missing, extra []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", missingSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(extraSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := fillColumn(f, missingSheet, missingHeader, missing); err != nil {
		return err
	}
	if err := fillColumn(f, extraSheet, extraHeader, extra); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving comparison workbook: %w", err)
	}
	return nil
}

func fillColumn(f *excelize.File, sheet, header string, values []string) error {
	if err := f.SetCellValue(sheet, "A1", header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s row: %w", sheet, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
