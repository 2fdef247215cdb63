package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// sessionCrumb returns the crumb bound to the client's cookie session, fetching it
// on first use. Concurrent callers share a single fetch.
func (c *Client) sessionCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	crumb := c.crumb
	c.mu.Unlock()
	if crumb != "" {
		return crumb, nil
	}

	v, err, _ := c.sf.Do("crumb", func() (any, error) {
		crumb, err := c.fetchCrumb(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.crumb = crumb
		c.mu.Unlock()
		return crumb, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// resetCrumb drops the cached crumb so the next call starts a new session.
func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

func (c *Client) fetchCrumb(ctx context.Context) (string, error) {
	if c.cookieURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, http.NoBody)
		if err != nil {
			return "", fmt.Errorf("creating cookie request: %w", err)
		}
		req.Header = c.header.Clone()
		res, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("performing cookie request: %w", err)
		}
		// The cookie endpoint answers 404 while still setting the session cookie.
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating crumb request: %w", err)
	}
	req.Header = c.header.Clone()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing crumb request: %w", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	if err != nil {
		return "", fmt.Errorf("reading crumb: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crumb: %w", &StatusError{Code: res.StatusCode, Body: string(b)})
	}
	crumb := strings.TrimSpace(string(b))
	if crumb == "" || strings.HasPrefix(crumb, "<") || strings.HasPrefix(crumb, "{") {
		return "", fmt.Errorf("crumb: unexpected body %q", crumb)
	}
	return crumb, nil
}
