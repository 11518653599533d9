// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"
)

// Summary output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// WriteCounts renders counts in the given format. The csv format has a
// category,count header and is what the dashboard reads.
func WriteCounts(w io.Writer, counts []CategoryCount, format string) error {
	switch format {
	case FormatTable, "":
		return writeCountsTable(w, counts)
	case FormatCSV:
		return writeCountsCSV(w, counts)
	case FormatJSON:
		if counts == nil {
			counts = []CategoryCount{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	case FormatYAML:
		if counts == nil {
			counts = []CategoryCount{}
		}
		data, err := yaml.Marshal(counts)
		if err != nil {
			return errors.Wrap(err, "marshaling YAML")
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.Newf("unsupported format %q: use table, csv, json, or yaml", format)
	}
}

func writeCountsTable(w io.Writer, counts []CategoryCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No categories found.")
		return err
	}

	fmt.Fprintf(w, "%-4s  %-50s  %s\n", "Rank", "Category", "Count")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for i, c := range counts {
		category := c.Category
		if len([]rune(category)) > 50 {
			category = string([]rune(category)[:47]) + "..."
		}
		fmt.Fprintf(w, "%-4d  %-50s  %d\n", i+1, category, c.Count)
	}
	_, err := fmt.Fprintf(w, "\n%d categories\n", len(counts))
	return err
}

func writeCountsCSV(w io.Writer, counts []CategoryCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "count"}); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Category, strconv.Itoa(c.Count)}); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes every indexed record to path, as YAML for .yaml/.yml and
// as indented JSON otherwise.
func (s *Store) Export(ctx context.Context, path string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return errors.Wrap(err, "querying for export")
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(records)
		if err != nil {
			return errors.Wrap(err, "marshaling YAML")
		}
	default:
		data, err = json.MarshalIndent(records, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshaling JSON")
		}
	}
	return os.WriteFile(path, data, 0o644)
}
