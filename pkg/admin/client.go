package admin

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

	"github.com/ottermq/brokeradmin/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// Management API endpoints, relative to the base URL. Only the default
// vhost ("/", encoded as %2F) is supported.
const (
	endpointOverview    = "api/overview"
	endpointDefinitions = "api/definitions"
	endpointQueues      = "api/queues"
	endpointShovel      = "api/parameters/shovel/%2F/"
	endpointShovels     = "api/shovels/%2F"
)

// Client is a management API client for a single broker. It is immutable
// after New and safe for concurrent use.
type Client struct {
	host     string
	port     string
	user     string
	password string
	base     string

	http    *http.Client
	metrics metrics.MetricsCollector
}

// Opt configures a Client at construction time.
type Opt func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Opt {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithMetrics records every request on m.
func WithMetrics(m metrics.MetricsCollector) Opt {
	return func(c *Client) {
		c.metrics = m
	}
}

// New returns a client for the management API at http://host:port.
func New(host, port, user, password string, opts ...Opt) *Client {
	c := &Client{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		base:     fmt.Sprintf("http://%s:%s", host, port),
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Host() string    { return c.host }
func (c *Client) Port() string    { return c.port }
func (c *Client) BaseURL() string { return c.base }

func (c *Client) String() string {
	return c.base
}

////////////////////////////////////////////////////////////////////////////////
// HTTP VERBS

func (c *Client) apiGet(ctx context.Context, uri string) (*Response, error) {
	return c.do(ctx, http.MethodGet, uri, nil)
}

func (c *Client) apiPost(ctx context.Context, uri string, payload any) (*Response, error) {
	return c.do(ctx, http.MethodPost, uri, payload)
}

func (c *Client) apiPut(ctx context.Context, uri string, payload any) (*Response, error) {
	return c.do(ctx, http.MethodPut, uri, payload)
}

func (c *Client) apiDelete(ctx context.Context, uri string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, uri, nil)
}

func (c *Client) do(ctx context.Context, method, uri string, payload any) (*Response, error) {
	if uri == "" {
		return nil, nil
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s payload: %w", method, uri, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(uri), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, uri, err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	route := routeOf(uri)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.recordTransportError(method, route)
		return nil, fmt.Errorf("%s %s failed: %w", method, c.endpoint(uri), err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		c.recordTransportError(method, route)
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, uri, err)
	}
	elapsed := time.Since(start)
	c.recordRequest(method, route, res.StatusCode, elapsed)

	log.Debug().
		Str("method", method).
		Str("url", c.endpoint(uri)).
		Int("status", res.StatusCode).
		Dur("elapsed", elapsed).
		Msg("Management API call")

	return &Response{
		Method:     method,
		URL:        c.endpoint(uri),
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       data,
	}, nil
}

// endpoint joins the base URL and a relative path. The path is used as is,
// so an escaped vhost segment reaches the broker still escaped.
func (c *Client) endpoint(uri string) string {
	return strings.Join([]string{c.base, strings.TrimPrefix(uri, "/")}, "/")
}

func (c *Client) recordRequest(method, route string, code int, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRequest(method, route, code, elapsed)
	}
}

func (c *Client) recordTransportError(method, route string) {
	if c.metrics != nil {
		c.metrics.RecordTransportError(method, route)
	}
}

// routeOf drops per-object path segments so metric labels stay bounded.
func routeOf(uri string) string {
	if strings.HasPrefix(uri, endpointShovel) {
		return strings.TrimSuffix(endpointShovel, "/%2F/")
	}
	return uri
}

func shovelEndpoint(name string) string {
	return endpointShovel + url.PathEscape(name)
}
