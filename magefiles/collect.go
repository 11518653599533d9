//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	defaultInput   = "data/input/ids.csv"
	defaultResults = "data/output/entity_results.jsonl"
	defaultIndex   = "data/index/entity_index.db"
)

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Collect runs a batch over INPUT (default data/input/ids.csv) into
// data/output/entity_results.jsonl.
func Collect() error {
	mg.Deps(Build, Init)
	return sh.RunV("bin/"+binName, "collect",
		"--input", envOr("INPUT", defaultInput),
		"--output", defaultResults)
}

// Index loads the collected records into the SQLite index.
func Index() error {
	mg.Deps(Build, Init)
	return sh.RunV("bin/"+binName, "index", defaultResults, "--db", defaultIndex)
}

// Summary writes the category,count table for the dashboard.
func Summary() error {
	mg.Deps(Index)
	return sh.RunV("bin/"+binName, "summary", "--db", defaultIndex, "--format", "csv")
}
