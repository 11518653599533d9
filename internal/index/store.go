// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads collected records into a local SQLite database and
// answers category counts over their attributes.
package index

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/entity-collector/pkg/types"
)

const (
	// DefaultPath is the database file used when none is configured.
	DefaultPath = "entity_index.db"

	defaultMaxResults = 20

	// maxLineSize bounds one JSONL record; entities with many claims run long.
	maxLineSize = 16 << 20
)

// Store manages the record index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.IndexConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating index directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			error_message TEXT,
			label TEXT,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attributes (
			entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			property TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (entity_id, property)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attributes_property ON attributes(property, value)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// IngestSummary holds counts from one ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of lines processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// IngestFile ingests the JSONL file at path.
func (s *Store) IngestFile(ctx context.Context, path string, w io.Writer) (IngestSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return IngestSummary{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return s.Ingest(ctx, f, w)
}

// Ingest reads JSONL records from r and stores each one, replacing any
// earlier row with the same id. Lines that do not parse are counted as
// failed and skipped.
func (s *Store) Ingest(ctx context.Context, r io.Reader, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var rec types.Record
		if err := json.Unmarshal(text, &rec); err != nil {
			fmt.Fprintf(w, "failed  line %d: parse error: %v\n", line, err)
			summary.Failed++
			continue
		}
		if rec.ID == "" {
			fmt.Fprintf(w, "failed  line %d: record has no id\n", line)
			summary.Failed++
			continue
		}

		existed, err := s.ingestRecord(ctx, &rec)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.ID, err)
			summary.Failed++
			continue
		}
		if existed {
			fmt.Fprintf(w, "updated %s (%d attributes)\n", rec.ID, len(rec.Attributes))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d attributes)\n", rec.ID, len(rec.Attributes))
			summary.Indexed++
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, errors.Wrap(err, "reading records")
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Failed)
	return summary, nil
}

func (s *Store) ingestRecord(ctx context.Context, rec *types.Record) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM entities WHERE id = ?`, rec.ID).Scan(&n); err != nil {
		return false, errors.Wrap(err, "checking existing record")
	}
	existed := n > 0

	if _, err := tx.ExecContext(ctx, `DELETE FROM attributes WHERE entity_id = ?`, rec.ID); err != nil {
		return false, errors.Wrap(err, "deleting old attributes")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (id, status, error_message, label, description)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, error_message=excluded.error_message,
			label=excluded.label, description=excluded.description`,
		rec.ID, string(rec.Status), rec.ErrorMessage, rec.Label, rec.Description,
	)
	if err != nil {
		return false, errors.Wrap(err, "upserting entity")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attributes (entity_id, property, value) VALUES (?, ?, ?)`)
	if err != nil {
		return false, errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for property, value := range rec.Attributes {
		if _, err := stmt.ExecContext(ctx, rec.ID, property, value); err != nil {
			return false, errors.Wrapf(err, "inserting attribute %s", property)
		}
	}

	return existed, tx.Commit()
}

// CategoryCount is one row of a category summary.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// CategoryCounts counts successful records by the value of the attribute
// named property, most frequent first with ties broken by category. limit
// <= 0 uses the configured maximum.
func (s *Store) CategoryCounts(ctx context.Context, property string, limit int) ([]CategoryCount, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.value, count(*) AS n
		 FROM attributes a
		 JOIN entities e ON e.id = a.entity_id
		 WHERE e.status = ? AND a.property = ?
		 GROUP BY a.value
		 ORDER BY n DESC, a.value ASC
		 LIMIT ?`,
		string(types.StatusSuccess), property, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying category counts")
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scanning category count")
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// StatusCounts returns the number of indexed records per status.
func (s *Store) StatusCounts(ctx context.Context) (map[types.RecordStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM entities GROUP BY status`)
	if err != nil {
		return nil, errors.Wrap(err, "querying status counts")
	}
	defer rows.Close()

	out := make(map[types.RecordStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.Wrap(err, "scanning status count")
		}
		out[types.RecordStatus(status)] = n
	}
	return out, rows.Err()
}

// Records returns every indexed record ordered by id. Success records carry
// a non-nil attribute map.
func (s *Store) Records(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, coalesce(error_message, ''), coalesce(label, ''), coalesce(description, '')
		 FROM entities ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}

	var records []types.Record
	byID := make(map[string]int)
	for rows.Next() {
		var r types.Record
		var status string
		if err := rows.Scan(&r.ID, &status, &r.ErrorMessage, &r.Label, &r.Description); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scanning record")
		}
		r.Status = types.RecordStatus(status)
		if r.Succeeded() {
			r.Attributes = map[string]string{}
		}
		byID[r.ID] = len(records)
		records = append(records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrRows, err := s.db.QueryContext(ctx, `SELECT entity_id, property, value FROM attributes`)
	if err != nil {
		return nil, errors.Wrap(err, "querying attributes")
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var id, property, value string
		if err := attrRows.Scan(&id, &property, &value); err != nil {
			return nil, errors.Wrap(err, "scanning attribute")
		}
		i, ok := byID[id]
		if !ok {
			continue
		}
		if records[i].Attributes == nil {
			records[i].Attributes = map[string]string{}
		}
		records[i].Attributes[property] = value
	}
	return records, attrRows.Err()
}
