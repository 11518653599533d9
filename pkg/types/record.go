// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the entity-collector pipeline:
// the per-identifier output record and the configuration structs.
package types

// RecordStatus reports whether an identifier was collected.
type RecordStatus string

const (
	StatusSuccess RecordStatus = "success"
	StatusFailed  RecordStatus = "failed"
)

// Sentinels written when the entity has no label or description in the
// requested language.
const (
	NoLabel       = "No label found"
	NoDescription = "No description found"
)

// Record is one line of the JSONL output. Every input identifier produces
// exactly one Record.
type Record struct {
	// ID is the input identifier (e.g. "Q42").
	ID string `json:"id" yaml:"id"`

	// Status is success when the entity fetch succeeded.
	Status RecordStatus `json:"status" yaml:"status"`

	// ErrorMessage describes why a failed record failed.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	// Label is the entity label in the configured language.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Description is the entity description in the configured language.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Attributes maps resolved property labels to resolved values. It is
	// non-nil (possibly empty) on success records and nil on failed ones.
	Attributes map[string]string `json:"attributes,omitzero" yaml:"attributes,omitempty"`
}

// Succeeded reports whether the record has success status.
func (r Record) Succeeded() bool {
	return r.Status == StatusSuccess
}
