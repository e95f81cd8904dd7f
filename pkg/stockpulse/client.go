// Package stockpulse is a Go SDK for the stock sentiment backend: stock
// lists, single-stock lookups, recommendations, server-rendered charts, news
// headlines and account login/registration.
package stockpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 30 * time.Second

// Client issues typed requests against a fixed backend base URL. Each method
// is exactly one HTTP exchange: no retries, no batching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new backend client for baseURL (for example
// "http://127.0.0.1:5000").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListStocks returns the backend's watchlist. A nil slice with a nil error
// means the response carried no "stocks" key at all.
func (c *Client) ListStocks(ctx context.Context) ([]StockRecord, error) {
	var resp stocksResponse
	if err := c.do(ctx, http.MethodGet, "/stocks", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Stocks == nil {
		return nil, nil
	}
	if *resp.Stocks == nil {
		return []StockRecord{}, nil
	}
	return *resp.Stocks, nil
}

// GetStock retrieves a single stock, with sentiment and trend, by symbol.
func (c *Client) GetStock(ctx context.Context, symbol string) (*StockRecord, error) {
	var rec StockRecord
	if err := c.do(ctx, http.MethodGet, "/stock/"+url.PathEscape(symbol), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetStockInfo retrieves the live price for a symbol.
func (c *Client) GetStockInfo(ctx context.Context, symbol string) (*StockInfo, error) {
	var info StockInfo
	if err := c.do(ctx, http.MethodGet, "/stock-info/"+url.PathEscape(symbol), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StockHistoryChart returns the absolute URL of the symbol's 7-day price
// chart image.
func (c *Client) StockHistoryChart(ctx context.Context, symbol string) (string, error) {
	return c.graph(ctx, "/stock-history/"+url.PathEscape(symbol))
}

// PriceChangeChart returns the absolute URL of the watchlist sentiment
// overview chart image.
func (c *Client) PriceChangeChart(ctx context.Context) (string, error) {
	return c.graph(ctx, "/price-change-graph")
}

// Recommendation returns the backend's recommended stock, or nil if the
// response carried none.
func (c *Client) Recommendation(ctx context.Context) (*StockRecord, error) {
	var resp recommendResponse
	if err := c.do(ctx, http.MethodGet, "/recommend", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recommended, nil
}

// News returns business headlines. When symbol is non-empty the
// symbol-specific feed is queried instead of the general one.
func (c *Client) News(ctx context.Context, symbol string) ([]Headline, error) {
	path := "/news"
	if symbol != "" {
		path += "/" + url.PathEscape(symbol)
	}
	var resp newsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Headlines) > 0 {
		return resp.Headlines, nil
	}
	return resp.News, nil
}

// Login checks credentials and returns the backend's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Register creates an account and returns the backend's message. A 409
// answer is reported as an error matching both ErrUsernameTaken and
// ErrConflict.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/register", creds, &resp); err != nil {
		if apiErr, ok := err.(*Error); ok && apiErr.StatusCode == http.StatusConflict {
			return "", fmt.Errorf("%w: %w", ErrUsernameTaken, err)
		}
		return "", err
	}
	return resp.Message, nil
}

// ResolveURL turns a backend-relative path such as "/static/chart.png" into
// an absolute URL. Absolute inputs are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return c.baseURL + ref
	}
	return base.ResolveReference(u).String()
}

func (c *Client) graph(ctx context.Context, path string) (string, error) {
	var resp graphResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return c.ResolveURL(resp.GraphURL), nil
}

// do performs one exchange. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Method: method, Path: path, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, StatusCode: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
			if apiErr.Message == "" {
				apiErr.Message = msg.Error
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Method: method, Path: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
