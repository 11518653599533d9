// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
)

// LabelResolver maps identifiers to their labels in one language. *Client
// implements it.
type LabelResolver interface {
	FetchLabels(ctx context.Context, ids []string, lang string) (map[string]string, error)
}

// Attribute is one extracted property before value labels are applied.
type Attribute struct {
	PropertyID string
	Label      string
	Value      Value
}

// FirstValue decodes the main value of the first statement. It returns false
// when there are no statements or the first one carries no value
// (novalue/somevalue snaks). Later statements are ignored.
func FirstValue(statements []Statement) (Value, bool) {
	if len(statements) == 0 {
		return Value{}, false
	}
	dv := statements[0].MainSnak.DataValue
	if dv == nil {
		return Value{}, false
	}
	return DecodeValue(*dv), true
}

// ExtractAttributes runs the raw pass: one Attribute per property that has
// a first value, in property id order, and the sorted, deduplicated set of
// identifiers those values reference. Properties missing from
// propertyLabels are labeled with their id.
func ExtractAttributes(claims map[string][]Statement, propertyLabels map[string]string) ([]Attribute, []string) {
	pids := make([]string, 0, len(claims))
	for pid := range claims {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	pending := make(map[string]struct{})
	attrs := make([]Attribute, 0, len(pids))
	for _, pid := range pids {
		v, ok := FirstValue(claims[pid])
		if !ok {
			continue
		}
		label := propertyLabels[pid]
		if label == "" {
			label = pid
		}
		attrs = append(attrs, Attribute{PropertyID: pid, Label: label, Value: v})
		if id, ok := v.PendingID(); ok {
			pending[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return attrs, ids
}

// RenderAttributes runs the resolution pass, keyed by property label. When
// two properties share a label the one with the greater property id wins.
func RenderAttributes(attrs []Attribute, labels map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Label] = a.Value.Render(labels)
	}
	return out
}

// ExtractClaims flattens claims into a property label → value map,
// resolving referenced identifiers with a single FetchLabels call.
//
// The returned map is always complete. A non-nil error means value labels
// could not be resolved and raw identifiers were kept in their place; callers
// should treat it as a warning.
func ExtractClaims(ctx context.Context, r LabelResolver, claims map[string][]Statement, propertyLabels map[string]string, lang string) (map[string]string, error) {
	attrs, pending := ExtractAttributes(claims, propertyLabels)

	var labels map[string]string
	var resolveErr error
	if len(pending) > 0 {
		var err error
		labels, err = r.FetchLabels(ctx, pending, lang)
		if err != nil {
			labels = nil
			resolveErr = errors.Wrap(err, "resolving value labels")
		}
	}

	return RenderAttributes(attrs, labels), resolveErr
}
