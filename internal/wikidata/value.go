// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind enumerates the datavalue types the extractor understands.
// Anything else decodes to ValueUnhandled.
type ValueKind int

const (
	ValueUnhandled ValueKind = iota
	ValueEntity
	ValueString
	ValueExternalID
	ValueQuantity
	ValueTime
	ValueGlobeCoordinate
	ValueMonolingualText
)

func (k ValueKind) String() string {
	switch k {
	case ValueEntity:
		return "wikibase-entityid"
	case ValueString:
		return "string"
	case ValueExternalID:
		return "external-id"
	case ValueQuantity:
		return "quantity"
	case ValueTime:
		return "time"
	case ValueGlobeCoordinate:
		return "globecoordinate"
	case ValueMonolingualText:
		return "monolingualtext"
	default:
		return "unhandled"
	}
}

// EntityURIPrefix is the concept URI prefix used for quantity units.
const EntityURIPrefix = "http://www.wikidata.org/entity/"

// dimensionlessUnit is the unit of plain numbers ("http://www.wikidata.org/entity/1").
const dimensionlessUnit = "1"

// Value is a decoded datavalue. Kind decides which fields are set.
type Value struct {
	Kind ValueKind

	// Type is the raw type tag from the API.
	Type string

	// ID is the referenced entity (ValueEntity).
	ID string

	// Text holds ValueString, ValueExternalID, ValueMonolingualText and the
	// raw timestamp of ValueTime.
	Text string

	// Language is the language of a ValueMonolingualText.
	Language string

	// Amount is the decimal string of a ValueQuantity, kept verbatim.
	Amount string

	// Unit is the quantity unit with EntityURIPrefix stripped. Empty for
	// dimensionless quantities.
	Unit string

	Latitude  float64
	Longitude float64
}

type entityIDPayload struct {
	ID         string `json:"id"`
	EntityType string `json:"entity-type"`
	NumericID  int64  `json:"numeric-id"`
}

type quantityPayload struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type timePayload struct {
	Time string `json:"time"`
}

type globePayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type monolingualPayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// DecodeValue converts a raw datavalue into a Value. It never fails: an
// unknown type tag, or a payload that does not match its tag, yields
// ValueUnhandled.
func DecodeValue(dv DataValue) Value {
	unhandled := Value{Kind: ValueUnhandled, Type: dv.Type}

	switch dv.Type {
	case "wikibase-entityid":
		var p entityIDPayload
		if err := json.Unmarshal(dv.Value, &p); err != nil {
			return unhandled
		}
		id := p.ID
		if id == "" && p.NumericID > 0 {
			id = entityPrefix(p.EntityType) + strconv.FormatInt(p.NumericID, 10)
		}
		if id == "" {
			return unhandled
		}
		return Value{Kind: ValueEntity, Type: dv.Type, ID: id}

	case "string", "external-id":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return unhandled
		}
		kind := ValueString
		if dv.Type == "external-id" {
			kind = ValueExternalID
		}
		return Value{Kind: kind, Type: dv.Type, Text: s}

	case "quantity":
		var p quantityPayload
		if err := json.Unmarshal(dv.Value, &p); err != nil {
			return unhandled
		}
		unit := strings.TrimPrefix(p.Unit, EntityURIPrefix)
		if unit == dimensionlessUnit {
			unit = ""
		}
		return Value{Kind: ValueQuantity, Type: dv.Type, Amount: p.Amount, Unit: unit}

	case "time":
		var p timePayload
		if err := json.Unmarshal(dv.Value, &p); err != nil {
			return unhandled
		}
		return Value{Kind: ValueTime, Type: dv.Type, Text: p.Time}

	case "globecoordinate":
		var p globePayload
		if err := json.Unmarshal(dv.Value, &p); err != nil {
			return unhandled
		}
		return Value{Kind: ValueGlobeCoordinate, Type: dv.Type, Latitude: p.Latitude, Longitude: p.Longitude}

	case "monolingualtext":
		var p monolingualPayload
		if err := json.Unmarshal(dv.Value, &p); err != nil {
			return unhandled
		}
		return Value{Kind: ValueMonolingualText, Type: dv.Type, Text: p.Text, Language: p.Language}
	}

	return unhandled
}

func entityPrefix(entityType string) string {
	switch entityType {
	case "property":
		return "P"
	case "lexeme":
		return "L"
	default:
		return "Q"
	}
}

// unitIsEntity reports whether a quantity unit names an item that needs a label.
func (v Value) unitIsEntity() bool {
	return strings.HasPrefix(v.Unit, "Q")
}

// PendingID returns the identifier whose label this value needs, if any:
// the referenced entity, or the unit item of a quantity.
func (v Value) PendingID() (string, bool) {
	switch v.Kind {
	case ValueEntity:
		return v.ID, true
	case ValueQuantity:
		if v.unitIsEntity() {
			return v.Unit, true
		}
	}
	return "", false
}

// Render formats the value as an attribute string. Identifiers found in
// labels are replaced by their label; missing ones stay raw. labels may be nil.
func (v Value) Render(labels map[string]string) string {
	switch v.Kind {
	case ValueEntity:
		return lookup(labels, v.ID)
	case ValueString, ValueExternalID, ValueMonolingualText, ValueTime:
		return v.Text
	case ValueQuantity:
		switch {
		case v.Unit == "":
			return v.Amount
		case v.unitIsEntity():
			return v.Amount + " " + lookup(labels, v.Unit)
		default:
			return v.Amount + " " + v.Unit
		}
	case ValueGlobeCoordinate:
		return fmt.Sprintf("Lat: %s, Lon: %s", formatFloat(v.Latitude), formatFloat(v.Longitude))
	default:
		return fmt.Sprintf("[Unhandled Type: %s]", v.Type)
	}
}

func lookup(labels map[string]string, id string) string {
	if label, ok := labels[id]; ok && label != "" {
		return label
	}
	return id
}

// formatFloat prints f the way Python's repr does: shortest round-trip
// digits, exponent form below 1e-4 or from 1e16 up, and a trailing ".0" on
// integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
