package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/johan/polymarket-moonshot/internal/types"
)

const (
	// DefaultBaseURL is the base URL for the Gamma API.
	DefaultBaseURL = "https://gamma-api.polymarket.com"

	// DefaultEventBaseURL prefixes event slugs to build market links.
	DefaultEventBaseURL = "https://polymarket.com/event/"
)

// Client is an HTTP client for the Gamma API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	eventBaseURL string
	logger       *slog.Logger
}

// NewClient creates a new Gamma API client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		baseURL:      DefaultBaseURL,
		eventBaseURL: DefaultEventBaseURL,
		logger:       slog.Default(),
	}
}

// WithBaseURL sets a custom base URL for the client.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithEventBaseURL sets the prefix used to build market links.
func (c *Client) WithEventBaseURL(eventBaseURL string) *Client {
	c.eventBaseURL = eventBaseURL
	return c
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// FetchMarkets issues one GET against /markets and returns the validated
// records. Transport failures wrap ErrNetwork; schema violations wrap
// ErrDataFormat. No retries are attempted.
func (c *Client) FetchMarkets(ctx context.Context, filter *Filter) ([]types.MarketRecord, error) {
	u := c.baseURL + "/markets"
	if filter != nil {
		if q := buildQuery(filter); q != "" {
			u += "?" + q
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching markets", slog.String("url", u))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status: %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	records, err := DecodeMarkets(body, c.eventBaseURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched markets", slog.Int("count", len(records)))
	return records, nil
}

// DecodeMarkets parses a /markets payload into validated records. Any
// record that fails validation fails the whole payload with ErrDataFormat.
func DecodeMarkets(body []byte, eventBaseURL string) ([]types.MarketRecord, error) {
	var markets []Market
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrDataFormat, err)
	}

	records := make([]types.MarketRecord, 0, len(markets))
	for i := range markets {
		rec, err := markets[i].ToRecord(eventBaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDataFormat, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildQuery builds URL query parameters from a Filter.
func buildQuery(f *Filter) string {
	v := url.Values{}
	if f.Active != nil {
		v.Set("active", strconv.FormatBool(*f.Active))
	}
	if f.Closed != nil {
		v.Set("closed", strconv.FormatBool(*f.Closed))
	}
	if f.TagSlug != "" {
		v.Set("tag_slug", f.TagSlug)
	}
	if f.Order != "" {
		v.Set("order", f.Order)
		v.Set("ascending", strconv.FormatBool(f.Ascending))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v.Encode()
}
