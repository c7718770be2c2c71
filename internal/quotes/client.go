// Package quotes fetches live prices from a TradingView-style batch scan
// endpoint and normalizes the positional-array response into Quote models.
package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/portix/portfolio-service/internal/models"
)

// DefaultScanURL is the global TradingView scanner endpoint used when no
// URL is configured.
const DefaultScanURL = "https://scanner.tradingview.com/global/scan"

const defaultTimeout = 10 * time.Second

// Response bodies larger than this are truncated when captured into a
// ScanError.
const maxErrorBody = 4096

// scanColumns is the fixed column set requested for every batch; response
// row values are positional in this order.
var scanColumns = []string{"close", "currency", "pricescale", "name", "description", "exchange"}

// Config holds the provider endpoint configuration. The zero value is
// usable: it falls back to DefaultScanURL and a default HTTP client.
type Config struct {
	ScanURL    string
	HTTPClient *http.Client
	Headers    map[string]string
}

// Client issues batched quote requests against a scan endpoint.
type Client struct {
	scanURL    string
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a quote client from the given configuration.
func NewClient(cfg Config) *Client {
	scanURL := cfg.ScanURL
	if scanURL == "" {
		scanURL = DefaultScanURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		scanURL:    scanURL,
		httpClient: httpClient,
		headers:    cfg.Headers,
	}
}

// ScanError reports a non-success HTTP status from the scan endpoint,
// carrying the status code and the raw response body.
type ScanError struct {
	Status int
	Body   string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("quote scan failed with status %d: %s", e.Status, e.Body)
}

type scanRequest struct {
	Symbols scanSymbols `json:"symbols"`
	Columns []string    `json:"columns"`
}

type scanSymbols struct {
	Tickers []string `json:"tickers"`
}

type scanResponse struct {
	Data []scanRow `json:"data"`
}

type scanRow struct {
	Symbol string        `json:"s"`
	Values []interface{} `json:"d"`
}

// FetchQuotes issues a single batched request for the given provider
// symbols. Blank entries and duplicates are dropped before the request; an
// empty resulting set returns no quotes without a network call. Row order in
// the result is whatever the provider returned. A non-2xx status surfaces as
// a *ScanError; per-row malformed fields degrade to nil instead of failing
// the batch.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	tickers := dedupeSymbols(symbols)
	if len(tickers) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(scanRequest{
		Symbols: scanSymbols{Tickers: tickers},
		Columns: scanColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scanURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ScanError{Status: resp.StatusCode, Body: string(body)}
	}

	var scan scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return nil, fmt.Errorf("failed to decode scan response: %w", err)
	}

	quotes := make([]models.Quote, 0, len(scan.Data))
	for _, row := range scan.Data {
		quotes = append(quotes, normalizeRow(row))
	}
	return quotes, nil
}

// normalizeRow maps one positional response row onto a Quote. Missing or
// mis-typed values become nil fields.
func normalizeRow(row scanRow) models.Quote {
	q := models.Quote{
		Symbol:      row.Symbol,
		RawClose:    valueAt(row.Values, 0),
		Currency:    stringAt(row.Values, 1),
		Pricescale:  floatAt(row.Values, 2),
		Name:        stringAt(row.Values, 3),
		Description: stringAt(row.Values, 4),
		Exchange:    stringAt(row.Values, 5),
	}
	q.Price = floatAt(row.Values, 0)
	return q
}

func valueAt(values []interface{}, i int) interface{} {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func floatAt(values []interface{}, i int) *float64 {
	if v, ok := valueAt(values, i).(float64); ok {
		return &v
	}
	return nil
}

func stringAt(values []interface{}, i int) *string {
	if s, ok := valueAt(values, i).(string); ok {
		return &s
	}
	return nil
}

func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var tickers []string
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		tickers = append(tickers, s)
	}
	return tickers
}
