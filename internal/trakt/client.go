package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trakt2letterboxd/internal/config"
)

const (
	defaultUserAgent    = "trakt2letterboxd/1.0"
	pageCountHeader     = "X-Pagination-Page-Count"
	maxErrorBodyPreview = 2048
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientConfig is the immutable request configuration for a Client.
type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	APIVersion   string
	RedirectURI  string
	UserAgent    string
	PageSize     int
}

// ClientOption customises Client construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for Trakt API calls.
func WithHTTPClient(client HTTPDoer) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// Client issues JSON requests against the Trakt API. It holds no session state.
type Client struct {
	cfg  ClientConfig
	http HTTPDoer
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, errors.New("trakt base url required")
	}
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	if cfg.ClientID == "" {
		return nil, errors.New("trakt client id required")
	}
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}

	client := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewClientFromConfig builds a Client from application configuration.
func NewClientFromConfig(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	base := []ClientOption{WithTimeout(cfg.RequestTimeout())}
	return NewClient(ClientConfig{
		BaseURL:      cfg.Trakt.BaseURL,
		ClientID:     cfg.Trakt.ClientID,
		ClientSecret: cfg.Trakt.ClientSecret,
		APIVersion:   cfg.Trakt.APIVersion,
		RedirectURI:  cfg.Trakt.RedirectURI,
		PageSize:     cfg.Trakt.PageSize,
	}, append(base, opts...)...)
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() ClientConfig {
	return c.cfg
}

type apiRequest struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
}

// do sends req and decodes a JSON body into out when out is non-nil. Non-2xx
// answers become *StatusError; transport failures are wrapped with the route.
func (c *Client) do(ctx context.Context, req apiRequest, out any) (http.Header, error) {
	var reader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.cfg.BaseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.applyStandardHeaders(httpReq)
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("trakt %s %s failed: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyPreview))
		return resp.Header, &StatusError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.Header, fmt.Errorf("decode trakt %s response: %w", req.path, err)
	}
	return resp.Header, nil
}

func (c *Client) applyStandardHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("trakt-api-version", c.cfg.APIVersion)
	req.Header.Set("trakt-api-key", c.cfg.ClientID)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// pageCount reads the total page count header; 0 means unknown.
func pageCount(header http.Header) int {
	if header == nil {
		return 0
	}
	value, err := strconv.Atoi(strings.TrimSpace(header.Get(pageCountHeader)))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
