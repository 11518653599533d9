// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/entity-collector/pkg/types"
)

const sampleEntityJSON = `{
  "entities": {
    "Q42": {
      "id": "Q42",
      "labels": {"en": {"language": "en", "value": "Douglas Adams"}},
      "descriptions": {"en": {"language": "en", "value": "English writer and humorist"}},
      "aliases": {"en": [{"language": "en", "value": "Douglas Noël Adams"}]},
      "sitelinks": {"enwiki": {"site": "enwiki", "title": "Douglas Adams"}},
      "claims": {
        "P31": [{"mainsnak": {"snaktype": "value", "property": "P31",
          "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "numeric-id": 5, "id": "Q5"}}}}]
      }
    }
  }
}`

func newTestClient(ts *httptest.Server) *Client {
	return &Client{
		HTTP:      ts.Client(),
		Endpoint:  ts.URL + "/w/api.php",
		UserAgent: "entity-collector-test/0.1",
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(types.CollectionConfig{})
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, defaultTimeout, c.HTTP.Timeout)
	assert.Nil(t, c.Limiter)

	c = NewClient(types.CollectionConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 3 * time.Second, UserAgent: "ua", RequestsPerSecond: 2},
		Endpoint:   "http://localhost/api.php",
	})
	assert.Equal(t, "http://localhost/api.php", c.Endpoint)
	assert.Equal(t, 3*time.Second, c.HTTP.Timeout)
	assert.Equal(t, "ua", c.UserAgent)
	require.NotNil(t, c.Limiter)
	assert.Equal(t, rate.Limit(2), c.Limiter.Limit())
}

func TestFetchEntity(t *testing.T) {
	var gotQuery map[string]string
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, sampleEntityJSON)
	}))
	defer ts.Close()

	e, err := newTestClient(ts).FetchEntity(context.Background(), "Q42")
	require.NoError(t, err)

	assert.Equal(t, "Q42", e.ID)
	assert.Equal(t, "Douglas Adams", e.Label("en"))
	assert.Equal(t, "English writer and humorist", e.Description("en"))
	assert.Equal(t, "", e.Label("fr"))
	assert.Equal(t, "Douglas Adams", e.Sitelinks["enwiki"].Title)
	assert.Equal(t, []string{"P31"}, e.PropertyIDs())

	assert.Equal(t, "entity-collector-test/0.1", gotUA)
	assert.Equal(t, map[string]string{
		"action": "wbgetentities",
		"ids":    "Q42",
		"format": "json",
		"props":  "claims|labels|descriptions|sitelinks|aliases",
	}, gotQuery)
}

func TestFetchEntityErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   ErrorKind
		wantMsg    string
	}{
		{
			name:       "api error payload",
			statusCode: http.StatusOK,
			body:       `{"error": {"code": "no-such-entity", "info": "Could not find an entity with the ID \"Q0\"."}}`,
			wantKind:   KindAPI,
			wantMsg:    "no-such-entity",
		},
		{
			name:       "entity marked missing",
			statusCode: http.StatusOK,
			body:       `{"entities": {"Q42": {"id": "Q42", "missing": ""}}}`,
			wantKind:   KindNotFound,
			wantMsg:    "not found",
		},
		{
			name:       "entity absent from response",
			statusCode: http.StatusOK,
			body:       `{"entities": {}}`,
			wantKind:   KindNotFound,
			wantMsg:    "not found",
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			body:       `oops`,
			wantKind:   KindHTTPStatus,
			wantMsg:    "HTTP 500",
		},
		{
			name:       "malformed json",
			statusCode: http.StatusOK,
			body:       `{"entities": `,
			wantKind:   KindDecode,
			wantMsg:    "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			e, err := newTestClient(ts).FetchEntity(context.Background(), "Q42")
			require.Error(t, err)
			assert.Nil(t, e)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFetchEntityTransportError(t *testing.T) {
	c := &Client{HTTP: http.DefaultClient, Endpoint: "http://127.0.0.1:1/w/api.php"}
	_, err := c.FetchEntity(context.Background(), "Q42")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

// labelServer answers label requests with "Label <id>" for every requested
// id except those in missing, and counts requests.
func labelServer(t *testing.T, calls *int32, missing map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		q := r.URL.Query()
		if q.Get("props") != "labels" {
			http.Error(w, "unexpected props", http.StatusBadRequest)
			return
		}
		lang := q.Get("languages")
		entities := map[string]any{}
		for _, id := range strings.Split(q.Get("ids"), "|") {
			if missing[id] {
				entities[id] = map[string]any{"id": id, "labels": map[string]any{}}
				continue
			}
			entities[id] = map[string]any{
				"id": id,
				"labels": map[string]any{
					lang: map[string]string{"language": lang, "value": "Label " + id},
				},
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"entities": entities})
	}))
}

func TestFetchLabelsChunksRequests(t *testing.T) {
	var calls int32
	ts := labelServer(t, &calls, nil)
	defer ts.Close()

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("Q%d", i+1)
	}

	labels, err := newTestClient(ts).FetchLabels(context.Background(), ids, "en")
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, labels, 120)
	for _, id := range ids {
		assert.Equal(t, "Label "+id, labels[id])
	}
}

func TestFetchLabelsBatchSizeOverride(t *testing.T) {
	var calls int32
	ts := labelServer(t, &calls, nil)
	defer ts.Close()

	c := newTestClient(ts)
	c.BatchSize = 2
	labels, err := c.FetchLabels(context.Background(), []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, "es")
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "Label Q5", labels["Q5"])
}

func TestFetchLabelsMissingLabelIsAbsent(t *testing.T) {
	var calls int32
	ts := labelServer(t, &calls, map[string]bool{"P999": true})
	defer ts.Close()

	labels, err := newTestClient(ts).FetchLabels(context.Background(), []string{"P31", "P999"}, "en")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"P31": "Label P31"}, labels)
}

func TestFetchLabelsEmptyInput(t *testing.T) {
	var calls int32
	ts := labelServer(t, &calls, nil)
	defer ts.Close()

	labels, err := newTestClient(ts).FetchLabels(context.Background(), nil, "en")
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetchLabelsChunkFailureDiscardsAll(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"entities": {"Q1": {"id": "Q1", "labels": {"en": {"language": "en", "value": "universe"}}}}}`)
	}))
	defer ts.Close()

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("Q%d", i+1)
	}

	labels, err := newTestClient(ts).FetchLabels(context.Background(), ids, "en")
	require.Error(t, err)
	assert.Nil(t, labels)
	assert.Equal(t, KindHTTPStatus, KindOf(err))
	// The third chunk is never requested.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLimiterCancelledContext(t *testing.T) {
	var calls int32
	ts := labelServer(t, &calls, nil)
	defer ts.Close()

	c := newTestClient(ts)
	c.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	ctx := context.Background()
	_, err := c.FetchLabels(ctx, []string{"Q1"}, "en")
	require.NoError(t, err)

	// The burst is spent; the next wait would exceed the deadline.
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchLabels(ctx, []string{"Q2"}, "en")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []int
	}{
		{"empty", 0, 50, nil},
		{"under ceiling", 7, 50, []int{7}},
		{"exact ceiling", 50, 50, []int{50}},
		{"one over", 51, 50, []int{50, 1}},
		{"120 by 50", 120, 50, []int{50, 50, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.n)
			for i := range ids {
				ids[i] = fmt.Sprintf("Q%d", i)
			}
			chunks := chunkIDs(ids, tt.size)
			var sizes []int
			var flat []string
			for _, c := range chunks {
				sizes = append(sizes, len(c))
				flat = append(flat, c...)
			}
			assert.Equal(t, tt.want, sizes)
			if tt.n > 0 {
				assert.Equal(t, ids, flat)
			}
		})
	}
}
