// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/audit-miner/internal/catalog"
	"github.com/pdiddy/audit-miner/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the report catalog (store, query, export)",
	Long: `Catalog manages a local SQLite index built from the results workbook.
Use subcommands to ingest extraction results, query them with full-text
search and filters, or export the catalog to YAML or JSON.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest the results workbook into the catalog",
	Long: `Store reads the results workbook, ingests its rows into a SQLite
database with FTS5 indexing, and refreshes the export file. Unchanged
rows are skipped on subsequent runs.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	resultsFile := setting(cmd, "results", "catalog.results_file", "results.xlsx")
	_, err = store.Ingest(context.Background(), resultsFile, os.Stdout)
	return err
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Query searches the catalog using FTS5 full-text search over filenames,
states, locations, and departments, structured filters, or a combination
of both.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --state, --department, or --financial-year")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []types.ReportRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-16s  %-20s  %-30s  %-10s\n",
		"Rank", "Filename", "State", "Location", "Department", "FY")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-16s  %-20s  %-30s  %-10s\n",
			i+1, clip(r.Filename, 30), clip(r.State, 16), clip(r.Location, 20),
			clip(r.Department, 30), r.FinancialYear)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to
catalog/index/export.yaml or export.json. Supports the same filter flags
as query for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	cfg := types.CatalogConfig{
		CatalogDir: setting(cmd, "catalog-dir", "catalog.catalog_dir", "catalog"),
		MaxResults: maxResults,
	}
	return catalog.NewStore(cfg)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	state, _ := cmd.Flags().GetString("state")
	department, _ := cmd.Flags().GetString("department")
	financialYear, _ := cmd.Flags().GetString("financial-year")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:         queryText,
		State:         state,
		Department:    department,
		FinancialYear: financialYear,
		MaxResults:    limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for the catalog (contains index/)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Store flags.
	catalogStoreCmd.Flags().String("results", "results.xlsx", "path of the results workbook to ingest")

	// Query flags.
	catalogQueryCmd.Flags().String("query", "", "full-text search query")
	catalogQueryCmd.Flags().String("state", "", "filter by state")
	catalogQueryCmd.Flags().String("department", "", "filter by department")
	catalogQueryCmd.Flags().String("financial-year", "", "filter by financial year")
	catalogQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("state", "", "filter by state for partial export")
	catalogExportCmd.Flags().String("department", "", "filter by department for partial export")
	catalogExportCmd.Flags().String("financial-year", "", "filter by financial year for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum rows to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
