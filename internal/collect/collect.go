// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect drives entity collection over a list of identifiers and
// writes one JSON record per identifier.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/entity-collector/internal/logger"
	"github.com/pdiddy/entity-collector/internal/wikidata"
	"github.com/pdiddy/entity-collector/pkg/types"
)

const defaultLanguage = "en"

// Source fetches entities and labels. *wikidata.Client implements it.
type Source interface {
	FetchEntity(ctx context.Context, id string) (*wikidata.Entity, error)
	wikidata.LabelResolver
}

// Collector turns identifiers into Records.
type Collector struct {
	Source   Source
	Language string
	Logger   *zap.SugaredLogger
}

// NewCollector returns a Collector reading labels and descriptions in lang
// ("en" when empty).
func NewCollector(src Source, lang string) *Collector {
	if lang == "" {
		lang = defaultLanguage
	}
	return &Collector{Source: src, Language: lang, Logger: logger.Logger}
}

// BatchResult holds the counters of a batch run.
type BatchResult struct {
	Attempted int
	Succeeded int
	Failed    int
}

// HasFailures reports whether any identifier failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// CollectRecord builds the record for one identifier. It never fails: fetch
// errors and panics become a failed record, and label resolution problems
// degrade to raw identifiers.
func (c *Collector) CollectRecord(ctx context.Context, id string) (rec types.Record) {
	defer func() {
		if p := recover(); p != nil {
			rec = types.Record{
				ID:           id,
				Status:       types.StatusFailed,
				ErrorMessage: fmt.Sprintf("Unexpected execution error: %v", p),
			}
		}
	}()

	entity, err := c.Source.FetchEntity(ctx, id)
	if err != nil {
		return types.Record{ID: id, Status: types.StatusFailed, ErrorMessage: err.Error()}
	}

	label := entity.Label(c.Language)
	if label == "" {
		label = types.NoLabel
	}
	description := entity.Description(c.Language)
	if description == "" {
		description = types.NoDescription
	}

	attrs := c.attributes(ctx, id, entity)

	return types.Record{
		ID:          id,
		Status:      types.StatusSuccess,
		Label:       label,
		Description: description,
		Attributes:  attrs,
	}
}

// attributes resolves property labels, falling back to the raw ids, and
// extracts the labeled claim values.
func (c *Collector) attributes(ctx context.Context, id string, entity *wikidata.Entity) map[string]string {
	pids := entity.PropertyIDs()
	propertyLabels := c.propertyLabels(ctx, id, pids)

	attrs, err := wikidata.ExtractClaims(ctx, c.Source, entity.Claims, propertyLabels, c.Language)
	if err != nil {
		c.log().Warnw("could not resolve value labels, keeping identifiers", "id", id, "error", err)
	}
	return attrs
}

func (c *Collector) propertyLabels(ctx context.Context, id string, pids []string) map[string]string {
	if len(pids) == 0 {
		return map[string]string{}
	}
	labels, err := c.Source.FetchLabels(ctx, pids, c.Language)
	if err != nil {
		c.log().Warnw("could not fetch property labels, using ids", "id", id, "error", err)
		labels = make(map[string]string, len(pids))
		for _, pid := range pids {
			labels[pid] = pid
		}
	}
	return labels
}

func (c *Collector) log() *zap.SugaredLogger {
	if c.Logger == nil {
		return logger.Logger
	}
	return c.Logger
}

// CollectBatch processes ids in order and writes one JSON line per id to
// out as soon as it is built. Progress lines and a final summary go to w.
// Per-identifier failures are recorded and never stop the batch; only a
// failure to write to out does.
func (c *Collector) CollectBatch(ctx context.Context, ids []string, out io.Writer, w io.Writer) (BatchResult, error) {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	var result BatchResult
	for _, id := range ids {
		fmt.Fprintf(w, "processing: %s\n", id)
		rec := c.CollectRecord(ctx, id)
		result.Attempted++

		if err := enc.Encode(rec); err != nil {
			return result, errors.Wrapf(err, "writing record for %s", id)
		}

		if rec.Succeeded() {
			result.Succeeded++
			fmt.Fprintf(w, "collected: %s (%s, %d attributes)\n", id, rec.Label, len(rec.Attributes))
		} else {
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%s)\n", id, rec.ErrorMessage)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed (attempted: %d)\n",
		result.Succeeded, result.Failed, result.Attempted)
	return result, nil
}

// CollectToFile runs CollectBatch into a newly created file at path. The
// file stays open for the whole batch and is truncated if it exists.
func (c *Collector) CollectToFile(ctx context.Context, ids []string, path string, w io.Writer) (BatchResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return BatchResult{}, errors.Wrapf(err, "creating output file %s", path)
	}
	defer f.Close()

	fmt.Fprintf(w, "Collecting %d identifier(s) into %s\n", len(ids), path)
	result, err := c.CollectBatch(ctx, ids, f, w)
	if err != nil {
		return result, err
	}
	if err := f.Close(); err != nil {
		return result, errors.Wrapf(err, "closing output file %s", path)
	}
	return result, nil
}
