// Package client talks to the upstream investors API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/investor-portal/internal/cache"
	"github.com/bobmcallan/investor-portal/internal/models"
)

// DefaultMaxBodyBytes bounds how much of a success body is read.
const DefaultMaxBodyBytes = 10 << 20

var (
	// ErrFetchFailed is matched by every *FetchError via errors.Is.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedResponse wraps bodies that did not decode.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrResponseTooLarge reports a success body over the client's limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// Operation names carried by FetchError.
const (
	OpListInvestors = "list_investors"
	OpGetInvestor   = "get_investor"
)

// FetchError reports a non-success HTTP status from the investors API.
// It deliberately carries nothing from the response body.
type FetchError struct {
	Op         string
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.Op == OpGetInvestor {
		return "Failed to fetch investor details"
	}
	return "Failed to fetch investors"
}

func (e *FetchError) Unwrap() error {
	return ErrFetchFailed
}

// InvestorClient fetches investors from the upstream API.
type InvestorClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.QueryCache
	maxBody    int64
}

// Option configures an InvestorClient.
type Option func(*InvestorClient)

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *InvestorClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *InvestorClient) {
		c.httpClient = hc
	}
}

// WithCache enables reuse of successful bodies per query key.
func WithCache(qc *cache.QueryCache) Option {
	return func(c *InvestorClient) {
		c.cache = qc
	}
}

// WithMaxBodyBytes caps the size of a success body. Larger bodies fail with
// ErrResponseTooLarge.
func WithMaxBodyBytes(n int64) Option {
	return func(c *InvestorClient) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// NewInvestorClient creates a new client targeting the given API base URL.
func NewInvestorClient(baseURL string, opts ...Option) *InvestorClient {
	c := &InvestorClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxBody:    DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the upstream base URL.
func (c *InvestorClient) BaseURL() string {
	return c.baseURL
}

// ListInvestors fetches all investors.
// GET /investors -> { investors: Investor[] }
func (c *InvestorClient) ListInvestors(ctx context.Context) (*models.InvestorsResponse, error) {
	key := cache.InvestorsKey()
	body, hit, err := c.get(ctx, OpListInvestors, key, "/investors")
	if err != nil {
		return nil, err
	}

	var result models.InvestorsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: investors: %w", ErrMalformedResponse, err)
	}
	if !hit {
		c.cache.Set(key, body)
	}

	return &result, nil
}

// GetInvestor fetches one investor with commitments. The id is the 1-based
// position of the investor in the list response and is sent as given.
// GET /investor/{id} -> InvestorDetail
func (c *InvestorClient) GetInvestor(ctx context.Context, id int) (*models.InvestorDetail, error) {
	key := cache.InvestorKey(id)
	body, hit, err := c.get(ctx, OpGetInvestor, key, "/investor/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	var result models.InvestorDetail
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: investor %d: %w", ErrMalformedResponse, id, err)
	}
	if !hit {
		c.cache.Set(key, body)
	}

	return &result, nil
}

// Ping reports whether the upstream API answers its root path.
func (c *InvestorClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach investors API: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("investors API returned %d", resp.StatusCode)
	}
	return nil
}

// get performs a single GET, consulting the query cache first.
// Callers store the body once it has parsed.
func (c *InvestorClient) get(ctx context.Context, op, key, path string) ([]byte, bool, error) {
	if entry, ok := c.cache.Get(key); ok {
		return entry.Body, true, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reach investors API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return nil, false, &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, false, fmt.Errorf("%w: %s over %d bytes", ErrResponseTooLarge, op, c.maxBody)
	}

	return body, false, nil
}
