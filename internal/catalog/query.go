// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/audit-miner/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string matched against
	// filename, state, location, and department.
	Query string

	// State filters by exact state name.
	State string

	// Department filters by exact department name.
	Department string

	// FinancialYear filters by exact financial year.
	FinancialYear string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.State == "" && q.Department == "" && q.FinancialYear == ""
}

// Retrieve queries the catalog with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries or sorted by filename otherwise.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.ReportRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.filename, r.state, r.location, r.department,
				r.audit_conducted_year, r.financial_year
			FROM reports_fts
			JOIN reports r ON r.rowid = reports_fts.rowid
			WHERE reports_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.filename, r.state, r.location, r.department,
				r.audit_conducted_year, r.financial_year
			FROM reports r
			WHERE 1=1`)
	}

	if opts.State != "" {
		qb.WriteString(` AND r.state = ?`)
		args = append(args, opts.State)
	}

	if opts.Department != "" {
		qb.WriteString(` AND r.department = ?`)
		args = append(args, opts.Department)
	}

	if opts.FinancialYear != "" {
		qb.WriteString(` AND r.financial_year = ?`)
		args = append(args, opts.FinancialYear)
	}

	if useFTS {
		qb.WriteString(` ORDER BY reports_fts.rank, r.filename`)
	} else {
		qb.WriteString(` ORDER BY r.filename`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []types.ReportRecord
	for rows.Next() {
		var rec types.ReportRecord
		if err := rows.Scan(
			&rec.Filename, &rec.State, &rec.Location, &rec.Department,
			&rec.AuditConductedYear, &rec.FinancialYear,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}
