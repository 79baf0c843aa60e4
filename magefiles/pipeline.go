//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// runCLI executes the built audit-miner binary with the given arguments,
// building it first if needed.
func runCLI(args ...string) error {
	bin := filepath.Join(binDir, binName)
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		if err := Build(); err != nil {
			return err
		}
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Convert converts legacy .doc reports in input/ to .docx.
func Convert() error {
	fmt.Println("[convert] Converting legacy .doc reports.")
	return runCLI("convert")
}

// Extract runs metadata extraction over input/ into results.xlsx.
func Extract() error {
	fmt.Println("[extract] Extracting report metadata.")
	return runCLI("extract")
}

// Reconcile compares input/ against results.xlsx and quarantines misses.
func Reconcile() error {
	fmt.Println("[reconcile] Reconciling inputs against results.")
	return runCLI("reconcile")
}

// Index ingests results.xlsx into the SQLite catalog.
func Index() error {
	fmt.Println("[catalog] Indexing results into the catalog.")
	return runCLI("catalog", "store")
}

// Pipeline runs convert, extract, reconcile, and index in order.
func Pipeline() error {
	for _, step := range []func() error{Convert, Extract, Reconcile, Index} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
