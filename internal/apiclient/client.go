// Package apiclient holds the HTTP plumbing shared by the Up and YNAB clients:
// bearer authentication, timeouts, JSON bodies and the error taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/up2ynab/up2ynab/internal/buildinfo"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// Config configures a Client.
type Config struct {
	API       string // short name used in errors and logs, e.g. "Up"
	BaseURL   string
	Token     string
	Timeout   time.Duration
	Transport http.RoundTripper // default: http.DefaultTransport
	Logger    zerolog.Logger
}

// Client issues authenticated JSON requests against one API.
type Client struct {
	api     string
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a Client. It fails with ErrAuthMissing when no token is set.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%s: %w", cfg.API, ErrAuthMissing)
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s base URL: %w", cfg.API, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s base URL %q must be absolute", cfg.API, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		api:     cfg.API,
		baseURL: base,
		logger:  cfg.Logger.With().Str("api", cfg.API).Logger(),
	}
	c.http = &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   transport,
		},
		// The token is attached by the transport, so it would follow a
		// redirect anywhere. Only same-origin redirects are allowed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !c.SameOrigin(req.URL.String()) {
				return fmt.Errorf("refusing redirect to %s", req.URL.Host)
			}
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
	return c, nil
}

// API returns the client's short API name.
func (c *Client) API() string { return c.api }

// URL joins an endpoint path and query onto the base URL.
func (c *Client) URL(endpoint string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + endpoint
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// SameOrigin reports whether rawURL has the base URL's scheme and host.
func (c *Client) SameOrigin(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, c.baseURL.Scheme) && strings.EqualFold(u.Host, c.baseURL.Host)
}

// Probe issues GET endpoint and maps 200 to true and 401 to false. Any other
// status is returned as a *StatusError.
func (c *Client) Probe(ctx context.Context, endpoint string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.URL(endpoint, nil), nil)
	if err != nil {
		return false, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized:
		return false, nil
	}
	return false, c.statusError(resp)
}

// GetJSON issues GET rawURL and decodes a 2xx body into out. rawURL may be a
// full URL such as a pagination link; it must share the base URL's origin.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	if !c.SameOrigin(rawURL) {
		return fmt.Errorf("%s API: refusing request to foreign origin %q", c.api, rawURL)
	}
	return c.doJSON(ctx, http.MethodGet, rawURL, nil, out)
}

// PostJSON issues POST endpoint with a JSON body and decodes a 2xx body into out.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", c.api, err)
	}
	return c.doJSON(ctx, http.MethodPost, c.URL(endpoint, nil), payload, out)
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	resp, err := c.do(ctx, method, rawURL, payload)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s API: decoding %s %s response: %w", c.api, method, rawURL, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%s API: creating request: %w", c.api, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s API: %s %s: %w", c.api, method, rawURL, ctxErr)
		}
		c.logger.Debug().Str("method", method).Str("url", rawURL).Err(err).Msg("http request failed")
		return nil, &TransportError{API: c.api, Method: method, URL: rawURL, Err: err}
	}
	c.logger.Debug().
		Str("method", method).
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("http request")
	return resp, nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		API:        c.api,
		Method:     resp.Request.Method,
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Detail:     parseErrorDetail(body),
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
