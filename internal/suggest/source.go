// Package suggest assembles completion suggestions for a typed query from a
// shortcut's static list and a remote autocomplete source.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"startpage/internal/metrics"
)

// DefaultEndpoint is the DuckDuckGo autocomplete endpoint. The query is
// appended percent-encoded.
const DefaultEndpoint = "https://duckduckgo.com/ac/?q="

const maxResponseBytes = 1 << 20

var ErrUpstream = errors.New("suggestion source failed")

// Source returns completion phrases for free text.
type Source interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// DuckDuckGo queries the DuckDuckGo autocomplete API, which answers with a
// JSON array of {"phrase": "..."} objects.
type DuckDuckGo struct {
	Endpoint string
	Client   *http.Client
}

// NewDuckDuckGo creates a source. An empty endpoint uses DefaultEndpoint.
func NewDuckDuckGo(endpoint string, timeout time.Duration) *DuckDuckGo {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &DuckDuckGo{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Fetch performs one autocomplete request.
func (d *DuckDuckGo) Fetch(ctx context.Context, query string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.Endpoint+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "startpage-suggest/1.0")

	resp, err := d.Client.Do(req)
	if err != nil {
		metrics.RecordSuggestionFetch(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordSuggestionFetch(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	var items []struct {
		Phrase string `json:"phrase"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&items); err != nil {
		metrics.RecordSuggestionFetch(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	phrases := make([]string, 0, len(items))
	for _, it := range items {
		if it.Phrase != "" {
			phrases = append(phrases, it.Phrase)
		}
	}
	metrics.RecordSuggestionFetch(metrics.OutcomeMiss)
	return phrases, nil
}
