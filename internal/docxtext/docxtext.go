// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docxtext extracts plain text from .docx inspection reports.
package docxtext

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
)

// DefaultMaxLen caps the extracted text per document. Reports run long and
// the identifying fields live in the opening pages, so the cap keeps model
// requests small without losing signal.
const DefaultMaxLen = 5000

// FromFile reads the document at path and returns all non-empty paragraph
// texts joined with newlines, truncated to maxLen characters. The second
// return value reports whether truncation occurred. A maxLen of zero or
// less falls back to DefaultMaxLen.
func FromFile(path string, maxLen int) (string, bool, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", false, fmt.Errorf("parsing %s: %w", path, err)
	}

	var lines []string
	for _, it := range doc.Document.Body.Items {
		p, ok := it.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := strings.TrimSpace(p.String())
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}

	extracted := strings.Join(lines, "\n")
	if utf8.RuneCountInString(extracted) > maxLen {
		runes := []rune(extracted)
		return string(runes[:maxLen]), true, nil
	}
	return extracted, false, nil
}
