// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/entity-collector/internal/collect"
	"github.com/pdiddy/entity-collector/internal/wikidata"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <identifier>",
	Short: "Print a readable walkthrough of one entity",
	Long: `Inspect fetches one entity and prints its label, description, labeled
attributes, and the labels of its "instance of" values. Nothing is written
to the output file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addHTTPFlags(inspectCmd.Flags())
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, httpFlagKeys); err != nil {
		return err
	}

	cfg := collectionConfig()
	collector := collect.NewCollector(wikidata.NewClient(cfg), cfg.Language)
	return collector.Inspect(cmd.Context(), args[0], os.Stdout)
}
