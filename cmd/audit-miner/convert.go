// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/audit-miner/internal/container"
	"github.com/pdiddy/audit-miner/internal/convert"
	"github.com/pdiddy/audit-miner/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert legacy .doc reports to .docx",
	Long: `Convert walks the input folder for legacy .doc files and converts each
one to .docx with a headless LibreOffice container (docker or podman).
Documents that already have a .docx sibling are skipped.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("input", "input", "folder scanned for .doc files")
	convertCmd.Flags().String("image", "", "LibreOffice container image (default "+convert.DefaultImage+")")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := types.ConversionConfig{
		InputDir: setting(cmd, "input", "conversion.input_dir", "input"),
		Image:    setting(cmd, "image", "conversion.image", ""),
	}

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}

	conv, err := convert.NewLibreOfficeConverter(rt, cfg.Image)
	if err != nil {
		return err
	}

	result, err := convert.ConvertBatch(conv, cfg.InputDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}
