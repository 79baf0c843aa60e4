// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the audit-miner CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/audit-miner/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// setting resolves a string setting with flag > config file > fallback
// precedence.
func setting(cmd *cobra.Command, flag, viperKey, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return fallback
}

// rootCmd is the base command for the audit-miner CLI.
var rootCmd = &cobra.Command{
	Use:   "audit-miner",
	Short: "Metadata extraction for government audit inspection reports",
	Long: `audit-miner mines metadata out of audit inspection report documents. An
AI backend reads each report and fills in the state, location, department,
and audit years; results accumulate in an Excel workbook that later stages
reconcile, index, and export.

Each pipeline stage is a subcommand: convert, extract, reconcile, and
catalog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./audit-miner.yaml or ~/.config/audit-miner/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("audit-miner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "audit-miner"))
		}
	}

	viper.SetEnvPrefix("AUDIT_MINER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
