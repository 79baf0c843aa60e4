// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resultsheet reads and writes the extraction results workbook.
//
// The workbook has a fixed six-column layout with one row per processed
// document. It is rewritten in full after every row so the file on disk
// never lags more than one document behind a running extraction.
package resultsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/audit-miner/pkg/types"
)

// Columns is the fixed header row of the results workbook.
var Columns = []string{"Filename", "State", "Location", "Department", "Audit Conducted Year", "Financial Year"}

const sheetName = "Sheet1"

// Write rewrites the workbook at path with the header and all rows.
func Write(path string, rows []types.ReportRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		values := []interface{}{r.Filename, r.State, r.Location, r.Department, r.AuditConductedYear, r.FinancialYear}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving results workbook %s: %w", path, err)
	}
	return nil
}

// WritePlaceholder writes a workbook containing the header and a single
// blank row, matching the output of a run that found no documents.
func WritePlaceholder(path string) error {
	return Write(path, []types.ReportRecord{{}})
}

// Read returns all data rows of the workbook's first sheet as records.
// Short rows are padded; rows with a blank filename are skipped.
func Read(path string) ([]types.ReportRecord, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	var records []types.ReportRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		padded := make([]string, len(Columns))
		copy(padded, row)
		name := strings.TrimSpace(padded[0])
		if name == "" {
			continue
		}
		records = append(records, types.ReportRecord{
			Filename: name,
			ReportMetadata: types.ReportMetadata{
				State:              padded[1],
				Location:           padded[2],
				Department:         padded[3],
				AuditConductedYear: padded[4],
				FinancialYear:      padded[5],
			},
		})
	}
	return records, nil
}

// ReadProcessed returns the first-column filenames of all data rows, in
// sheet order. This is the processed-file list the reconciler joins on.
func ReadProcessed(path string) ([]string, error) {
	records, err := Read(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Filename
	}
	return names, nil
}

func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening results workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("results workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading rows from %s: %w", path, err)
	}
	return rows, nil
}
