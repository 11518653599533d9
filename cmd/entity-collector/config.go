// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/entity-collector/internal/collect"
	"github.com/pdiddy/entity-collector/internal/index"
	"github.com/pdiddy/entity-collector/internal/wikidata"
	"github.com/pdiddy/entity-collector/pkg/types"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultUserAgent  = "entity-collector/0.1 (https://github.com/pdiddy/entity-collector)"
	defaultOutputPath = "entity_results.jsonl"
	defaultLanguage   = "en"
	defaultCategory   = "instance of"
)

// envKeyReplacer maps viper keys such as http.user_agent to
// ENTITY_COLLECTOR_HTTP_USER_AGENT.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func init() {
	viper.SetDefault("http.timeout", defaultTimeout)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("http.requests_per_second", 0.0)
	viper.SetDefault("collect.endpoint", wikidata.DefaultEndpoint)
	viper.SetDefault("collect.language", defaultLanguage)
	viper.SetDefault("collect.output", defaultOutputPath)
	viper.SetDefault("collect.column", collect.DefaultColumn)
	viper.SetDefault("index.path", index.DefaultPath)
	viper.SetDefault("index.max_results", 20)
}

// collectionConfig assembles collection settings from flags, environment
// and config file, in viper's precedence order.
func collectionConfig() types.CollectionConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	language := viper.GetString("collect.language")
	if language == "" {
		language = defaultLanguage
	}

	return types.CollectionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:           timeout,
			UserAgent:         userAgent,
			RequestsPerSecond: viper.GetFloat64("http.requests_per_second"),
		},
		Endpoint:    viper.GetString("collect.endpoint"),
		Language:    language,
		OutputPath:  viper.GetString("collect.output"),
		InputColumn: viper.GetString("collect.column"),
	}
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		Path:       viper.GetString("index.path"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}

// httpFlagKeys maps viper keys to the shared HTTP flags of collect and inspect.
var httpFlagKeys = map[string]string{
	"http.timeout":             "timeout",
	"http.user_agent":          "user-agent",
	"http.requests_per_second": "rate",
	"collect.endpoint":         "endpoint",
	"collect.language":         "language",
}

func addHTTPFlags(flags *pflag.FlagSet) {
	flags.Duration("timeout", defaultTimeout, "HTTP request timeout")
	flags.String("user-agent", defaultUserAgent, "User-Agent sent to the API")
	flags.Float64("rate", 0, "maximum API requests per second (0 = unlimited)")
	flags.String("endpoint", wikidata.DefaultEndpoint, "wbgetentities API endpoint")
	flags.String("language", defaultLanguage, "language for labels and descriptions")
}
