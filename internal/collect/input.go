// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultColumn is the CSV column read when none is given.
const DefaultColumn = "qid"

// ReadIdentifiers loads identifiers from path in file order. A .csv file is
// read with a header row and the values of column (DefaultColumn when
// empty) are returned. Any other file holds one identifier per line; blank
// lines and lines starting with '#' are skipped. Duplicates are kept.
func ReadIdentifiers(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening identifier file")
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if column == "" {
			column = DefaultColumn
		}
		return readCSVColumn(f, column)
	}
	return readLines(f)
}

func readCSVColumn(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("identifier file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}

	idx := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Newf("column %q not found in CSV header %v", column, header)
	}

	var ids []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV row")
		}
		if idx >= len(row) {
			continue
		}
		if id := strings.TrimSpace(row[idx]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func readLines(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading identifier file")
	}
	return ids, nil
}
