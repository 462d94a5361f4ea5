package dehashed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/dehashscan/internal/config"
	"github.com/nao1215/dehashscan/internal/model"
)

// maxResponseSize caps how much of the response body is read.
// A full page of 10,000 entries is a few megabytes.
const maxResponseSize = 256 * 1024 * 1024

// SearchResult is a validated search response.
type SearchResult struct {
	// Entries is the non-empty record set, in API order.
	Entries []model.Record

	// Total is the number of matches the API reports, which can be larger
	// than len(Entries).
	Total int

	// Balance is the remaining query balance, when the API reports it.
	Balance int
}

// Client queries the search endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	pageSize    int
	credentials config.Credentials
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL sets the API root URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithPageSize sets how many entries to request. Values outside
// 1..MaxPageSize are ignored.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n >= 1 && n <= config.MaxPageSize {
			c.pageSize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticating with the given credentials.
func NewClient(creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		baseURL:     config.DefaultAPIURL,
		userAgent:   config.DefaultUserAgent,
		pageSize:    config.DefaultPageSize,
		credentials: creds,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient builds an HTTP client for the API.
// If proxyAddress is non-empty, all connections go through that SOCKS5
// proxy. A zero timeout means no client-side timeout.
func NewHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// SearchURL returns the search URL for a domain.
func (c *Client) SearchURL(domain string) string {
	q := url.Values{}
	q.Set("query", `domain:"`+domain+`"`)
	q.Set("size", strconv.Itoa(c.pageSize))
	return c.baseURL + "/search?" + q.Encode()
}

// SearchDomain fetches every entry for the domain in a single request.
func (c *Client) SearchDomain(ctx context.Context, domain string) (*SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(domain), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.credentials.Email, c.credentials.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("querying API",
		"domain", domain,
		"size", c.pageSize,
		"credentials", c.credentials,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUnexpectedResponse, err)
	}

	c.logger.Debug("API responded",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	result, err := parseSearchResponse(body)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, err
	}

	if len(result.Entries) > c.pageSize {
		c.logger.Warn("API returned more entries than requested, truncating",
			"received", len(result.Entries),
			"size", c.pageSize,
		)
		result.Entries = result.Entries[:c.pageSize]
	}
	return result, nil
}

// parseSearchResponse validates and decodes a search response body.
func parseSearchResponse(body []byte) (*SearchResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrUnexpectedResponse)
	}

	rawEntries, ok := envelope["entries"]
	if !ok {
		if msg := apiMessage(envelope); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, msg)
		}
		return nil, fmt.Errorf("%w: missing entries", ErrUnexpectedResponse)
	}

	if emptyValue(rawEntries) {
		return nil, ErrNoEntries
	}

	var entries []model.Record
	if err := json.Unmarshal(rawEntries, &entries); err != nil {
		return nil, fmt.Errorf("%w: entries: %w", ErrUnexpectedResponse, err)
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	return &SearchResult{
		Entries: entries,
		Total:   intField(envelope, "total"),
		Balance: intField(envelope, "balance"),
	}, nil
}

// emptyValue reports whether raw is null or the zero value of its JSON
// type: {}, [], "", 0 or false. The API uses several of these for "no
// results".
func emptyValue(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// apiMessage returns the "message" field of an error response, if any.
func apiMessage(envelope map[string]json.RawMessage) string {
	var msg string
	if raw, ok := envelope["message"]; ok {
		_ = json.Unmarshal(raw, &msg) //nolint:errcheck // best effort; non-string messages are ignored
	}
	return msg
}

// intField decodes an optional integer field, returning 0 when absent.
func intField(envelope map[string]json.RawMessage, key string) int {
	var n int
	if raw, ok := envelope[key]; ok {
		_ = json.Unmarshal(raw, &n) //nolint:errcheck // optional metadata
	}
	return n
}
