// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/entity-collector/internal/wikidata"
	"github.com/pdiddy/entity-collector/pkg/types"
)

// PropertyInstanceOf is the "instance of" property.
const PropertyInstanceOf = "P31"

// Inspect prints a human-readable walkthrough of one entity: its label and
// description, the labeled attributes, and every "instance of" value with
// its label. Unlike CollectRecord it returns the fetch error.
func (c *Collector) Inspect(ctx context.Context, id string, w io.Writer) error {
	entity, err := c.Source.FetchEntity(ctx, id)
	if err != nil {
		return err
	}

	label := entity.Label(c.Language)
	if label == "" {
		label = types.NoLabel
	}
	description := entity.Description(c.Language)
	if description == "" {
		description = types.NoDescription
	}

	fmt.Fprintf(w, "--- Entity %s ---\n", id)
	fmt.Fprintf(w, "Label: %s\n", label)
	fmt.Fprintf(w, "Description: %s\n", description)
	fmt.Fprintf(w, "Properties: %d\n", len(entity.Claims))

	pids := entity.PropertyIDs()
	propertyLabels := c.propertyLabels(ctx, id, pids)
	attrs, err := wikidata.ExtractClaims(ctx, c.Source, entity.Claims, propertyLabels, c.Language)
	if err != nil {
		fmt.Fprintf(w, "  warning: %v\n", err)
	}

	fmt.Fprintf(w, "\n--- Attributes ---\n")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(attrs); err != nil {
		return errors.Wrap(err, "writing attributes")
	}

	statements, ok := entity.Claims[PropertyInstanceOf]
	if !ok {
		fmt.Fprintf(w, "\n%s not found in claims.\n", PropertyInstanceOf)
		return nil
	}

	p31Label := propertyLabels[PropertyInstanceOf]
	if p31Label == "" {
		p31Label = PropertyInstanceOf
	}
	fmt.Fprintf(w, "\n--- %s (%s) ---\n", p31Label, PropertyInstanceOf)

	var ids []string
	for _, s := range statements {
		if s.MainSnak.DataValue == nil {
			continue
		}
		v := wikidata.DecodeValue(*s.MainSnak.DataValue)
		if v.Kind == wikidata.ValueEntity {
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No item values.")
		return nil
	}

	labels, err := c.Source.FetchLabels(ctx, ids, c.Language)
	if err != nil {
		fmt.Fprintf(w, "  warning: could not fetch value labels: %v\n", err)
	}
	for _, vid := range ids {
		l, ok := labels[vid]
		if !ok {
			l = "Label Not Found"
		}
		fmt.Fprintf(w, "  %-12s %s\n", vid, l)
	}
	return nil
}
