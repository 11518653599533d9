//go:build mage

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/entity-collector/pkg/types"
)

// Stats prints Go line counts and, when a results file exists, its records
// per status.
func Stats() error {
	prod, test, err := goLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)

	path := envOr("RESULTS", defaultResults)
	counts, err := resultCounts(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Records in %s: %d succeeded, %d failed, %d unreadable\n", path,
		counts[string(types.StatusSuccess)], counts[string(types.StatusFailed)], counts[""])
	return nil
}

// goLines counts non-blank lines of production and test Go files under
// root, skipping hidden, underscore, bin and data directories.
func goLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir || name == "data") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// resultCounts tallies a JSONL results file by record status. Lines that do
// not decode count under the empty status.
func resultCounts(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	counts := make(map[string]int)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			counts[""]++
			continue
		}
		counts[string(rec.Status)]++
	}
	return counts, scanner.Err()
}
