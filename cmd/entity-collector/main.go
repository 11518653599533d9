// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the entity-collector CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/entity-collector/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the entity-collector CLI.
var rootCmd = &cobra.Command{
	Use:   "entity-collector",
	Short: "Collect flattened Wikidata entity records",
	Long: `entity-collector fetches Wikidata entities by identifier, resolves the
labels of their properties and referenced items, and writes one JSON record
per identifier. The records can be indexed locally and summarized into the
category counts the dashboard reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine.
		_ = godotenv.Load()

		return logger.Initialize(viper.GetBool("log.json"), viper.GetBool("log.verbose"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./entity-collector.yaml or ~/.config/entity-collector/entity-collector.yaml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write diagnostic logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = viper.BindPFlag("log.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("entity-collector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "entity-collector"))
		}
	}

	viper.SetEnvPrefix("ENTITY_COLLECTOR")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds the named flags of cmd to viper keys. Commands share
// keys (inspect and collect both read http.*), so binding happens when a
// command runs rather than at init.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		var flag *pflag.Flag
		if flag = cmd.Flags().Lookup(name); flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
