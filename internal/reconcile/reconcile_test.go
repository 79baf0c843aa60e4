package reconcile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/audit-miner/internal/resultsheet"
	"github.com/pdiddy/audit-miner/pkg/types"
)

func writeResults(t *testing.T, path string, filenames ...string) {
	t.Helper()
	var rows []types.ReportRecord
	for _, name := range filenames {
		rows = append(rows, types.ReportRecord{Filename: name, ReportMetadata: types.DefaultMetadata()})
	}
	if err := resultsheet.Write(path, rows); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readColumn(t *testing.T, path, sheet string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out
}

func TestRun(t *testing.T) {
	tmp := t.TempDir()
	inputDir := filepath.Join(tmp, "input")
	outputDir := filepath.Join(tmp, "output")
	resultsPath := filepath.Join(tmp, "results.xlsx")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Inputs {A, B, C} vs results {B, C, D}: A is missing, D is extra.
	touch(t, filepath.Join(inputDir, "A.docx"), "doc A")
	touch(t, filepath.Join(inputDir, "B.docx"), "doc B")
	touch(t, filepath.Join(inputDir, "C.docx"), "doc C")
	writeResults(t, resultsPath, "B.docx", "C.docx", "D.docx")

	var buf strings.Builder
	summary, err := Run(types.ReconcileConfig{
		InputDir:    inputDir,
		ResultsFile: resultsPath,
		OutputDir:   outputDir,
	}, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Missing != 1 || summary.Extra != 1 || summary.Copied != 1 {
		t.Errorf("summary = %+v, want 1 missing, 1 extra, 1 copied", summary)
	}

	comparisonPath := filepath.Join(outputDir, "comparison_output.xlsx")
	missing := readColumn(t, comparisonPath, "Missing_Files")
	if len(missing) != 2 || missing[0] != "Missing in results.xlsx" || missing[1] != "A" {
		t.Errorf("Missing_Files column = %v", missing)
	}
	extra := readColumn(t, comparisonPath, "Extra_Files")
	if len(extra) != 2 || extra[0] != "Extra in results.xlsx" || extra[1] != "D" {
		t.Errorf("Extra_Files column = %v", extra)
	}

	// Only the missing file is quarantined, byte for byte.
	copied, err := os.ReadFile(filepath.Join(outputDir, "Unprocessed", "A.docx"))
	if err != nil {
		t.Fatalf("quarantined copy: %v", err)
	}
	if string(copied) != "doc A" {
		t.Errorf("copy content = %q", copied)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Unprocessed", "B.docx")); !os.IsNotExist(err) {
		t.Errorf("B.docx should not be quarantined")
	}
}

func TestRunMatchesByStem(t *testing.T) {
	tmp := t.TempDir()
	inputDir := filepath.Join(tmp, "input")
	resultsPath := filepath.Join(tmp, "results.xlsx")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Recorded with a .doc extension but present as .docx on disk.
	touch(t, filepath.Join(inputDir, "report.docx"), "x")
	writeResults(t, resultsPath, "report.doc")

	summary, err := Run(types.ReconcileConfig{
		InputDir:    inputDir,
		ResultsFile: resultsPath,
		OutputDir:   filepath.Join(tmp, "output"),
	}, &strings.Builder{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Missing != 0 || summary.Extra != 0 {
		t.Errorf("summary = %+v, want full match by stem", summary)
	}
}

func TestRunAllMatched(t *testing.T) {
	tmp := t.TempDir()
	inputDir := filepath.Join(tmp, "input")
	resultsPath := filepath.Join(tmp, "results.xlsx")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(inputDir, "a.docx"), "x")
	touch(t, filepath.Join(inputDir, "~$a.docx"), "lock")
	writeResults(t, resultsPath, "a.docx")

	outputDir := filepath.Join(tmp, "output")
	summary, err := Run(types.ReconcileConfig{
		InputDir:    inputDir,
		ResultsFile: resultsPath,
		OutputDir:   outputDir,
	}, &strings.Builder{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Missing != 0 || summary.Extra != 0 || summary.Copied != 0 {
		t.Errorf("summary = %+v, want all zero", summary)
	}
	// Workbook is still written so operators always get a report.
	if _, err := os.Stat(filepath.Join(outputDir, "comparison_output.xlsx")); err != nil {
		t.Errorf("comparison workbook missing: %v", err)
	}
	// No quarantine dir when nothing is missing.
	if _, err := os.Stat(filepath.Join(outputDir, "Unprocessed")); !os.IsNotExist(err) {
		t.Errorf("Unprocessed dir should not exist")
	}
}

func TestRunMissingResultsFile(t *testing.T) {
	tmp := t.TempDir()
	inputDir := filepath.Join(tmp, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := Run(types.ReconcileConfig{
		InputDir:    inputDir,
		ResultsFile: filepath.Join(tmp, "absent.xlsx"),
		OutputDir:   filepath.Join(tmp, "output"),
	}, &strings.Builder{})
	if err == nil {
		t.Fatal("expected error for missing results workbook")
	}
}
