// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every API request. Wikidata
	// rejects anonymous clients, so it should name the tool and a contact.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond caps the API request rate. Zero means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CollectionConfig holds settings for the collect and inspect commands.
type CollectionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the wbgetentities API URL (default https://www.wikidata.org/w/api.php).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Language selects labels and descriptions (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// OutputPath is the JSONL file the batch writes to.
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// InputColumn names the CSV column holding identifiers (default "qid").
	InputColumn string `json:"input_column" yaml:"input_column" mapstructure:"input_column"`
}

// IndexConfig holds settings for the record index.
type IndexConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults limits summary rows (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
