// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikidata fetches entities and labels from the Wikibase
// wbgetentities API and flattens entity claims into labeled attributes.
package wikidata

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/pdiddy/entity-collector/internal/httputil"
	"github.com/pdiddy/entity-collector/internal/logger"
	"github.com/pdiddy/entity-collector/pkg/types"
)

const (
	// DefaultEndpoint is the Wikidata action API.
	DefaultEndpoint = "https://www.wikidata.org/w/api.php"

	// MaxIDsPerRequest is the API's ceiling on ids per wbgetentities call.
	MaxIDsPerRequest = 50

	defaultTimeout = 10 * time.Second
	entityProps    = "claims|labels|descriptions|sitelinks|aliases"
)

// Client calls wbgetentities. The zero value is not usable; build one with
// NewClient or set HTTP and Endpoint.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	UserAgent string

	// BatchSize caps ids per label request. Values outside
	// 1..MaxIDsPerRequest mean MaxIDsPerRequest.
	BatchSize int

	// Limiter, when set, is waited on before every request.
	Limiter *rate.Limiter
}

// NewClient builds a Client from collection settings.
func NewClient(cfg types.CollectionConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Endpoint:  endpoint,
		UserAgent: cfg.UserAgent,
	}
	if cfg.RequestsPerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// FetchEntity retrieves claims, labels, descriptions, sitelinks and aliases
// for one identifier.
func (c *Client) FetchEntity(ctx context.Context, id string) (*Entity, error) {
	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {id},
		"format": {"json"},
		"props":  {entityProps},
	}

	resp, err := c.get(ctx, params, []string{id})
	if err != nil {
		return nil, err
	}

	entity, ok := resp.Entities[id]
	if !ok || entity.Missing != nil {
		return nil, &Error{
			Kind: KindNotFound,
			IDs:  []string{id},
			Err:  errors.Newf("entity %s not found or no data returned", id),
		}
	}
	return &entity, nil
}

// FetchLabels returns the label in lang for each id that has one. Ids are
// sent in chunks of at most BatchSize. If any chunk fails the whole call
// fails and labels from earlier chunks are dropped.
func (c *Client) FetchLabels(ctx context.Context, ids []string, lang string) (map[string]string, error) {
	labels := make(map[string]string)
	for _, chunk := range chunkIDs(ids, c.batchSize()) {
		params := url.Values{
			"action":    {"wbgetentities"},
			"ids":       {strings.Join(chunk, "|")},
			"format":    {"json"},
			"props":     {"labels"},
			"languages": {lang},
		}

		resp, err := c.get(ctx, params, chunk)
		if err != nil {
			return nil, err
		}

		for id, e := range resp.Entities {
			if label := e.Label(lang); label != "" {
				labels[id] = label
			}
		}
	}
	return labels, nil
}

func (c *Client) batchSize() int {
	if c.BatchSize <= 0 || c.BatchSize > MaxIDsPerRequest {
		return MaxIDsPerRequest
	}
	return c.BatchSize
}

// get performs one API request and maps every failure to an *Error.
func (c *Client) get(ctx context.Context, params url.Values, ids []string) (*apiResponse, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, IDs: ids, Err: errors.Wrap(err, "waiting for rate limiter")}
		}
	}

	reqURL := c.Endpoint + "?" + params.Encode()
	logger.Logger.Debugw("wikidata request", "props", params.Get("props"), "ids", len(ids))

	var resp apiResponse
	if err := httputil.GetJSON(ctx, c.HTTP, reqURL, c.UserAgent, &resp); err != nil {
		return nil, classify(err, ids)
	}
	if resp.Error != nil {
		return nil, &Error{
			Kind: KindAPI,
			IDs:  ids,
			Err:  errors.Newf("%s: %s", resp.Error.Code, resp.Error.Info),
		}
	}
	return &resp, nil
}

// chunkIDs splits ids into consecutive slices of at most n.
func chunkIDs(ids []string, n int) [][]string {
	var chunks [][]string
	for i := 0; i < len(ids); i += n {
		end := i + n
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}
