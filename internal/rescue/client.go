package rescue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DogFetcher defines the listing endpoints the synchronization controller uses.
// This interface is implemented by *Client and can be used for testing.
type DogFetcher interface {
	ListDogs(ctx context.Context, query ListQuery) ([]Dog, error)
	FetchCounts(ctx context.Context, params map[string]string) (FilterCounts, error)
	FetchRegions(ctx context.Context, country string) ([]string, error)
}

// OrganizationFetcher loads organization metadata.
type OrganizationFetcher interface {
	FetchOrganizations(ctx context.Context) ([]Organization, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ DogFetcher          = (*Client)(nil)
	_ OrganizationFetcher = (*Client)(nil)
)

const (
	defaultAPIBind    = "127.0.0.1:8087"
	defaultUserAgent  = "kennel/0.1"
	requestTimeout    = 10 * time.Second
	regionCacheSize   = 64
	requestIDHeader   = "X-Request-ID"
	listPath          = "/api/dogs"
	countsPath        = "/api/dogs/counts"
	regionsPath       = "/api/regions"
	organizationsPath = "/api/organizations"
)

// APIError reports a non-2xx response from the Rescue API.
type APIError struct {
	Path   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Client talks to the Rescue HTTP API.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
	regions *lru.Cache[string, []string]
	logger  *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger enables debug logging of every request.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a Client for the API at apiURL (host:port or full URL).
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	regions, err := lru.New[string, []string](regionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create region cache: %w", err)
	}
	c := &Client{
		baseURL: base,
		regions: regions,
		http: resty.New().
			SetBaseURL(base.String()).
			SetTimeout(requestTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", defaultUserAgent),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(requestIDHeader, uuid.NewString())
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if c.logger != nil {
			c.logger.Debug("api request",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"elapsed", resp.Time(),
				"request_id", resp.Request.Header.Get(requestIDHeader))
		}
		return nil
	})
	return c, nil
}

// BaseURL returns the normalized API base.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListDogs retrieves one page of dogs.
func (c *Client) ListDogs(ctx context.Context, query ListQuery) ([]Dog, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := paramValues(query.Params)
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}
	var payload []Dog
	if err := c.get(ctx, listPath, values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchCounts retrieves per-option counts for the given filter params.
func (c *Client) FetchCounts(ctx context.Context, params map[string]string) (FilterCounts, error) {
	if c == nil {
		return FilterCounts{}, fmt.Errorf("client is nil")
	}
	var payload FilterCounts
	if err := c.get(ctx, countsPath, paramValues(params), &payload); err != nil {
		return FilterCounts{}, err
	}
	return payload, nil
}

// FetchRegions retrieves the regions dogs can be adopted to within country.
// Results are cached per country.
func (c *Client) FetchRegions(ctx context.Context, country string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("country required")
	}
	if cached, ok := c.regions.Get(country); ok {
		return slices.Clone(cached), nil
	}
	values := url.Values{}
	values.Set("country", country)
	var payload regionsResponse
	if err := c.get(ctx, regionsPath, values, &payload); err != nil {
		return nil, err
	}
	c.regions.Add(country, slices.Clone(payload.Regions))
	return payload.Regions, nil
}

// FetchOrganizations retrieves every organization listing dogs.
func (c *Client) FetchOrganizations(ctx context.Context) ([]Organization, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Organization
	if err := c.get(ctx, organizationsPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	req := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(dest)
	if len(values) > 0 {
		req.SetQueryParamsFromValues(values)
	}
	resp, err := req.Execute(http.MethodGet, path)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	if resp.IsError() {
		return &APIError{Path: path, Status: resp.StatusCode()}
	}
	return nil
}

func paramValues(params map[string]string) url.Values {
	values := url.Values{}
	for key, value := range params {
		if value = strings.TrimSpace(value); value != "" {
			values.Set(key, value)
		}
	}
	return values
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
