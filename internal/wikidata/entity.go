// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"encoding/json"
	"sort"
)

// Entity is the subset of a wbgetentities entity record the collector reads.
type Entity struct {
	ID           string                 `json:"id"`
	Labels       map[string]LangValue   `json:"labels"`
	Descriptions map[string]LangValue   `json:"descriptions"`
	Aliases      map[string][]LangValue `json:"aliases"`
	Sitelinks    map[string]Sitelink    `json:"sitelinks"`
	Claims       map[string][]Statement `json:"claims"`

	// Missing is set (to "") by the API when the id does not exist.
	Missing *string `json:"missing,omitempty"`
}

// LangValue is a language-tagged string.
type LangValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Sitelink points at the entity's page on one wiki.
type Sitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

// Statement is one claim for a property. Qualifiers and references are not read.
type Statement struct {
	MainSnak Snak   `json:"mainsnak"`
	Rank     string `json:"rank"`
}

// Snak is the asserted value of a statement. DataValue is nil for
// "novalue" and "somevalue" snaks.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataType  string     `json:"datatype"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// DataValue is the typed payload of a snak. Value is decoded lazily
// according to Type.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Label returns the label in lang, or "" if none.
func (e *Entity) Label(lang string) string {
	return e.Labels[lang].Value
}

// Description returns the description in lang, or "" if none.
func (e *Entity) Description(lang string) string {
	return e.Descriptions[lang].Value
}

// PropertyIDs returns the ids of every property with claims, sorted.
func (e *Entity) PropertyIDs() []string {
	ids := make([]string, 0, len(e.Claims))
	for pid := range e.Claims {
		ids = append(ids, pid)
	}
	sort.Strings(ids)
	return ids
}

// apiResponse is the wbgetentities envelope.
type apiResponse struct {
	Entities map[string]Entity `json:"entities"`
	Error    *apiError         `json:"error,omitempty"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
