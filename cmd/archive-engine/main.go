// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the archive-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/archive-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the dotenv file at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the archive-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "archive-engine",
	Short: "Batch tooling for a personal document archive",
	Long: `archive-engine processes a personal archive of association-journal PDFs
and related documents. It extracts embedded images into a per-year folder
tree, produces structured Markdown summaries of documents through a
chat-completion API, and maintains a queryable SQLite catalog of both.

Each stage is a subcommand: images, summarize, and catalog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		credFile, _ := cmd.Root().PersistentFlags().GetString("credentials")
		s, err := secrets.Load(credFile)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./archive-engine.yaml or ~/.config/archive-engine/config.yaml)")
	rootCmd.PersistentFlags().String("credentials", ".env", "dotenv file holding the chat-completion API key")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("archive-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "archive-engine"))
		}
	}

	viper.SetEnvPrefix("ARCHIVE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setting resolves a string option: an explicitly set flag wins, then the
// config file / environment, then the flag default, then fallback.
func setting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
