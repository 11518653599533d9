// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/entity-collector/internal/index"
)

// --- index command ---

var indexCmd = &cobra.Command{
	Use:   "index [results.jsonl]",
	Short: "Load collected records into the local SQLite index",
	Long: `Index reads a JSONL file written by collect (default: the collect output
path) and stores every record in a SQLite database. Records already in the
index are replaced. Lines that do not parse are reported and skipped.

Use --export to also write every indexed record to a .json or .yaml file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"index.path": "db"}); err != nil {
		return err
	}

	path := collectionConfig().OutputPath
	if len(args) == 1 {
		path = args[0]
	}

	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestFile(cmd.Context(), path, os.Stdout)
	if err != nil {
		return err
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := store.Export(cmd.Context(), exportPath); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportPath)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d line(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- summary command ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count indexed entities by category",
	Long: `Summary counts successful records in the index by the value of one
attribute (default "instance of"), most frequent first. The csv format
writes the category,count table the dashboard reads.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"index.path":        "db",
		"index.max_results": "limit",
	}); err != nil {
		return err
	}

	attribute, _ := cmd.Flags().GetString("attribute")
	format, _ := cmd.Flags().GetString("format")

	cfg := indexConfig()
	store, err := index.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.CategoryCounts(cmd.Context(), attribute, cfg.MaxResults)
	if err != nil {
		return err
	}
	return index.WriteCounts(os.Stdout, counts, format)
}

func init() {
	indexCmd.Flags().String("db", index.DefaultPath, "SQLite index file")
	indexCmd.Flags().String("export", "", "also export all records to this .json or .yaml file")

	summaryCmd.Flags().String("db", index.DefaultPath, "SQLite index file")
	summaryCmd.Flags().String("attribute", defaultCategory, "attribute whose values are counted")
	summaryCmd.Flags().String("format", index.FormatTable, "output format: table, csv, json, or yaml")
	summaryCmd.Flags().Int("limit", 20, "maximum number of categories")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(summaryCmd)
}
