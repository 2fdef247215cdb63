package yahoo

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
)

const (
	baseURL   = "https://query2.finance.yahoo.com"
	cookieURL = "https://fc.yahoo.com"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Yahoo Finance query API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// cookieURL is requested once to obtain the session cookie the crumb is bound to.
	cookieURL string
	// httpClient is the HTTP client. It must keep cookies between requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header

	mu    sync.Mutex
	crumb string
	sf    singleflight.Group
}

// ClientOption is a configuration option for the Yahoo client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithCookieURL sets the URL used to bootstrap the session cookie.
func WithCookieURL(u string) ClientOption {
	return func(c *Client) {
		c.cookieURL = u
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new Yahoo client.
func NewClient(options ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		cookieURL:  cookieURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("yahoo: empty base url")
	}
	return c, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusBadRequest:
		return fmt.Sprintf("bad request: %s", e.Body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "unauthorized"
	case http.StatusNotFound:
		return "not found"
	case http.StatusTooManyRequests:
		return "rate limited"
	}
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}
