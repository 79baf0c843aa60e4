// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/audit-miner/internal/reconcile"
	"github.com/pdiddy/audit-miner/pkg/types"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare input reports against the results workbook",
	Long: `Reconcile diffs the .docx files in the input folder against the filename
column of the results workbook, writes a two-sheet comparison workbook to
the output folder, and copies any unprocessed reports into an Unprocessed
quarantine folder for a follow-up extraction run.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().String("input", "input", "folder of .docx inspection reports")
	reconcileCmd.Flags().String("results", "results.xlsx", "path of the results workbook")
	reconcileCmd.Flags().String("output", "output", "folder for the comparison workbook and quarantine")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg := types.ReconcileConfig{
		InputDir:    setting(cmd, "input", "reconcile.input_dir", "input"),
		ResultsFile: setting(cmd, "results", "reconcile.results_file", "results.xlsx"),
		OutputDir:   setting(cmd, "output", "reconcile.output_dir", "output"),
	}

	summary, err := reconcile.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("missing: %d, extra: %d, quarantined: %d\n",
		summary.Missing, summary.Extra, summary.Copied)
	return nil
}
