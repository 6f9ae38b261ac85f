// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the backissue CLI.
// Implements: prd005-cli (R1-R4).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/backissue/internal/store"
	"github.com/pdiddy/backissue/pkg/types"

	// Parser variants register themselves at init.
	_ "github.com/pdiddy/backissue/internal/parsers/bundle"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built once per invocation; subcommands hand it to the store
// and the import pipeline.
var logger *zap.Logger

// rootCmd is the base command for the backissue CLI.
var rootCmd = &cobra.Command{
	Use:   "backissue",
	Short: "Import back-issue article metadata into journal archives",
	Long: `backissue rebuilds a journal's publication records from archived article
metadata. Each article folder under a volume/issue tree carries one XML
metadata document plus its asset files; backissue validates the document,
guards against re-imports, and creates the submission, publication, issue
and section records in one all-or-nothing step per article.

Journals and users live in a local SQLite database; use the journal and
user subcommands to set them up before importing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := buildLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

// openStore opens the repository under the resolved data directory. The
// --data-dir flag wins over backissue.yaml and the BACKISSUE_DATA_DIR
// environment variable.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir, _ := cmd.Flags().GetString("data-dir")
	if !cmd.Flags().Changed("data-dir") {
		if v := viper.GetString("data_dir"); v != "" {
			dir = v
		}
	}
	return store.Open(types.StorageConfig{DataDir: dir}, logger)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./backissue.yaml or ~/.config/backissue/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "root directory for the journal database and file storage")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("backissue")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "backissue"))
		}
	}

	viper.SetEnvPrefix("BACKISSUE")
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
