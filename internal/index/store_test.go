// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/entity-collector/pkg/types"
)

const sampleJSONL = `{"id":"Q83285","status":"success","label":"Durrës","description":"city in Albania","attributes":{"country":"Albania","instance of":"city"}}
{"id":"Q19689","status":"success","label":"Tirana","description":"capital of Albania","attributes":{"country":"Albania","instance of":"city"}}
{"id":"Q222","status":"success","label":"Albania","description":"country in Southeast Europe","attributes":{"instance of":"country"}}
{"id":"Q404","status":"failed","error_message":"not-found error for [Q404]: entity Q404 not found or no data returned"}
this is not json
{"id":"Q1","status":"success","label":"Universe","description":"No description found","attributes":{}}
`

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.IndexConfig{Path: filepath.Join(t.TempDir(), "db", "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIngest(t *testing.T) {
	store := testStore(t)

	var w bytes.Buffer
	summary, err := store.Ingest(context.Background(), strings.NewReader(sampleJSONL), &w)
	require.NoError(t, err)

	assert.Equal(t, IngestSummary{Indexed: 5, Failed: 1}, summary)
	assert.Equal(t, 6, summary.Total())
	assert.Contains(t, w.String(), "failed  line 5: parse error")
	assert.Contains(t, w.String(), "indexed: 5, updated: 0, failed: 1")

	statuses, err := store.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[types.RecordStatus]int{types.StatusSuccess: 4, types.StatusFailed: 1}, statuses)
}

func TestIngestReplacesRecords(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, strings.NewReader(sampleJSONL), &bytes.Buffer{})
	require.NoError(t, err)

	rerun := `{"id":"Q19689","status":"success","label":"Tirana","attributes":{"instance of":"capital"}}` + "\n"
	summary, err := store.Ingest(ctx, strings.NewReader(rerun), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1}, summary)

	records, err := store.Records(ctx)
	require.NoError(t, err)
	for _, r := range records {
		if r.ID == "Q19689" {
			assert.Equal(t, map[string]string{"instance of": "capital"}, r.Attributes)
		}
	}
}

func TestIngestRejectsRecordWithoutID(t *testing.T) {
	store := testStore(t)
	summary, err := store.Ingest(context.Background(), strings.NewReader(`{"status":"success"}`+"\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestIngestFile(t *testing.T) {
	store := testStore(t)
	path := filepath.Join(t.TempDir(), "entity_results.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSONL), 0o644))

	summary, err := store.IngestFile(context.Background(), path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Indexed)

	_, err = store.IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestCategoryCounts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, strings.NewReader(sampleJSONL), &bytes.Buffer{})
	require.NoError(t, err)

	counts, err := store.CategoryCounts(ctx, "instance of", 0)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: "city", Count: 2},
		{Category: "country", Count: 1},
	}, counts)

	counts, err = store.CategoryCounts(ctx, "instance of", 1)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{Category: "city", Count: 2}}, counts)

	counts, err = store.CategoryCounts(ctx, "no such property", 0)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestRecords(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, strings.NewReader(sampleJSONL), &bytes.Buffer{})
	require.NoError(t, err)

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "Q1", records[0].ID)
	assert.NotNil(t, records[0].Attributes)
	assert.Empty(t, records[0].Attributes)

	var failed types.Record
	for _, r := range records {
		if r.ID == "Q404" {
			failed = r
		}
	}
	assert.Equal(t, types.StatusFailed, failed.Status)
	assert.Nil(t, failed.Attributes)
	assert.Contains(t, failed.ErrorMessage, "not found")
}

func TestWriteCounts(t *testing.T) {
	counts := []CategoryCount{
		{Category: "city", Count: 2},
		{Category: "human, fictional", Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCounts(&buf, counts, FormatCSV))
	assert.Equal(t, "category,count\ncity,2\n\"human, fictional\",1\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, counts, FormatJSON))
	var fromJSON []CategoryCount
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, counts, fromJSON)

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, counts, FormatYAML))
	var fromYAML []CategoryCount
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, counts, fromYAML)

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, counts, FormatTable))
	assert.Contains(t, buf.String(), "city")
	assert.Contains(t, buf.String(), "2 categories")

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, nil, FormatTable))
	assert.Equal(t, "No categories found.\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, nil, FormatCSV))
	assert.Equal(t, "category,count\n", buf.String())

	err := WriteCounts(&buf, counts, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, strings.NewReader(sampleJSONL), &bytes.Buffer{})
	require.NoError(t, err)

	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "export.json")
	require.NoError(t, store.Export(ctx, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Record
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 5)

	yamlPath := filepath.Join(dir, "export.yaml")
	require.NoError(t, store.Export(ctx, yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Record
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 5)
	assert.Equal(t, "Durrës", fromYAML[4].Label)
}
