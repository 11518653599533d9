// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/entity-collector/internal/collect"
	"github.com/pdiddy/entity-collector/internal/wikidata"
)

var collectCmd = &cobra.Command{
	Use:   "collect [identifiers...]",
	Short: "Fetch entities and write one JSON record per identifier",
	Long: `Collect fetches each Wikidata identifier (e.g. Q42), resolves the labels
of its properties and referenced items, and writes one JSON line per
identifier to the output file. Identifiers come from the arguments or from
--input (a CSV with a qid column, or one identifier per line).

Failures are recorded in the output and never stop the batch. The command
exits with an error when any identifier failed.`,
	RunE: runCollect,
}

func init() {
	addHTTPFlags(collectCmd.Flags())
	collectCmd.Flags().StringP("input", "i", "", "file of identifiers (.csv with a header row, or one per line)")
	collectCmd.Flags().String("column", collect.DefaultColumn, "CSV column holding identifiers")
	collectCmd.Flags().StringP("output", "o", defaultOutputPath, "JSONL output file")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, httpFlagKeys); err != nil {
		return err
	}
	if err := bindFlags(cmd, map[string]string{
		"collect.output": "output",
		"collect.column": "column",
	}); err != nil {
		return err
	}

	ids := args
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		fromFile, err := collect.ReadIdentifiers(input, viper.GetString("collect.column"))
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide one or more identifiers or an --input file")
	}

	cfg := collectionConfig()
	client := wikidata.NewClient(cfg)
	collector := collect.NewCollector(client, cfg.Language)

	result, err := collector.CollectToFile(cmd.Context(), ids, cfg.OutputPath, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d identifier(s) failed collection", result.Failed)
	}
	return nil
}
