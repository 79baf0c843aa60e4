// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements legacy .doc to .docx conversion with a
// pluggable backend.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Converter transforms a legacy .doc file into .docx. The returned path
// points at the converted file, which is written next to the source.
type Converter interface {
	Convert(docPath string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch walks inputDir for .doc files and converts each one,
// printing per-file status to w and returning a summary. A document whose
// sibling .docx already exists is skipped.
func ConvertBatch(c Converter, inputDir string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	docs, err := listLegacyDocs(inputDir)
	if err != nil {
		return result, err
	}

	for _, path := range docs {
		base := filepath.Base(path)
		docxPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".docx"
		if _, err := os.Stat(docxPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already converted)\n", base)
			result.Skipped++
			continue
		}

		if _, err := c.Convert(path); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "converted: %s\n", base)
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// listLegacyDocs returns .doc paths under dir, recursively, skipping
// Office lock files and anything already in .docx form.
func listLegacyDocs(dir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
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
		if strings.EqualFold(filepath.Ext(name), ".doc") {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return docs, nil
}
