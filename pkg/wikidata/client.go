// Package wikidata provides a read-only client for the Wikidata SPARQL
// endpoint and the wbsearchentities full-text search API.
package wikidata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/biotech-analyzer/sponsor-cli/internal/resilience"
)

// Client defines the knowledge-graph operations. All queries are read-only.
type Client interface {
	// Query runs a SPARQL query and returns the result bindings.
	Query(ctx context.Context, sparql string) ([]Binding, error)
	// SearchEntities performs a free-text entity search and returns
	// candidate (id, label) pairs in API ranking order.
	SearchEntities(ctx context.Context, term string, limit int) ([]SearchResult, error)
}

// SearchResult is a single wbsearchentities hit.
type SearchResult struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Option configures the Wikidata client.
type Option func(*httpClient)

// WithSPARQLEndpoint sets a custom SPARQL endpoint (for testing).
func WithSPARQLEndpoint(u string) Option {
	return func(c *httpClient) {
		c.sparqlEndpoint = u
	}
}

// WithSearchEndpoint sets a custom search API endpoint (for testing).
func WithSearchEndpoint(u string) Option {
	return func(c *httpClient) {
		c.searchEndpoint = u
	}
}

// WithQueryTimeout sets the SPARQL query timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.queryHTTP.Timeout = d
	}
}

// WithSearchTimeout sets the entity search timeout.
func WithSearchTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.searchHTTP.Timeout = d
	}
}

// WithRetry sets the retry policy for SPARQL queries.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithRateLimit throttles outbound requests across both endpoints.
// Wikidata asks clients to keep request rates modest.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), max(burst, 1))
		}
	}
}

type httpClient struct {
	sparqlEndpoint string
	searchEndpoint string
	userAgent      string
	queryHTTP      *http.Client
	searchHTTP     *http.Client
	retry          resilience.RetryConfig
	limiter        *rate.Limiter
}

// NewClient creates a Wikidata client. The userAgent is sent on every
// request per Wikimedia User-Agent policy.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		sparqlEndpoint: "https://query.wikidata.org/sparql",
		searchEndpoint: "https://www.wikidata.org/w/api.php",
		userAgent:      userAgent,
		queryHTTP: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		searchHTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: resilience.RetryConfig{
			MaxAttempts:       6,
			InitialBackoff:    1 * time.Second,
			Multiplier:        2.0,
			RetryableStatuses: []int{429, 500, 502, 503, 504},
			OnRetry:           resilience.RetryLogger("wikidata", "sparql"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sparqlResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

func (c *httpClient) Query(ctx context.Context, sparql string) ([]Binding, error) {
	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, c.queryHTTP, c.sparqlEndpoint, url.Values{
			"query":  {sparql},
			"format": {"json"},
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "wikidata: sparql query")
	}

	var resp sparqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "wikidata: unmarshal sparql response")
	}
	return resp.Results.Bindings, nil
}

type searchResponse struct {
	Search []SearchResult `json:"search"`
}

func (c *httpClient) SearchEntities(ctx context.Context, term string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	// The search endpoint is cheap and interactive; no retry ladder here,
	// transport failures surface to the caller directly.
	body, err := c.get(ctx, c.searchHTTP, c.searchEndpoint, url.Values{
		"action":   {"wbsearchentities"},
		"search":   {term},
		"language": {"en"},
		"format":   {"json"},
		"limit":    {strconv.Itoa(limit)},
		"type":     {"item"},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "wikidata: search %q", term)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "wikidata: unmarshal search response")
	}
	return resp.Search, nil
}

// get issues a single GET and classifies failures so the retry policy can
// distinguish transient statuses from hard errors.
func (c *httpClient) get(ctx context.Context, hc *http.Client, endpoint string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "wikidata: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(err, 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "wikidata: read response body"), 0)
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("wikidata: status %d: %s", resp.StatusCode, truncate(body, 200))
		if resilience.IsTransientHTTPStatus(resp.StatusCode, c.retry.RetryableStatuses...) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
