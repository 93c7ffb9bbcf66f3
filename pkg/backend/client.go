package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/brewtower/pkg/cache"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/httputil"
	"github.com/matzehuels/brewtower/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// DefaultURL is where `brewtower serve` listens by default.
	DefaultURL = "http://localhost:5000"
)

var (
	// ErrNotFound is wrapped by errors for 404 responses.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is wrapped by errors for connection failures and 5xx responses.
	ErrNetwork = stderrors.New("network error")
)

// Client talks to one backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
	refresh bool
	retry   func(ctx context.Context, fn func() error) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10 s timeout).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache enables the read-through style cache.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = ch, ttl }
}

// WithKeyer overrides the cache key layout.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option { return func(c *Client) { c.headers = h } }

// WithRefresh makes cached reads bypass (and then overwrite) the cache.
func WithRefresh(refresh bool) Option { return func(c *Client) { c.refresh = refresh } }

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry = func(ctx context.Context, fn func() error) error {
			return httputil.Retry(ctx, attempts, delay, fn)
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid backend URL %q", baseURL)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache.NewNullCache(),
		keyer: cache.NewDefaultKeyer(),
		retry: httputil.RetryWithBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the backend base URL.
func (c *Client) URL() string { return c.base.String() }

// cached reads key from the cache, or runs fetch (with retries) and stores
// the JSON encoding of v.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	hooks := observability.Cache()
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok && json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, "http")
			return nil
		}
		hooks.OnCacheMiss(ctx, "http")
	}
	if err := c.retry(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil && c.cache.Set(ctx, key, data, c.ttl) == nil {
		hooks.OnCacheSet(ctx, "http", len(data))
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// call sends a JSON request, retried when safe (see attempt), and decodes the JSON response into
// out (when non-nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = marshal(in); err != nil {
			return err
		}
	}
	read := decodeInto(out)
	if out == nil {
		read = discard
	}
	return c.attempt(ctx, method, path, func() error {
		return c.do(ctx, method, path, query, "application/json", body, read)
	})
}

// raw sends body as-is and returns the response body.
func (c *Client) raw(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	var out []byte
	err := c.attempt(ctx, method, path, func() error {
		return c.do(ctx, method, path, nil, contentType, body, readInto(&out))
	})
	return out, err
}

// computePaths are POST endpoints that store nothing and may be resent.
var computePaths = map[string]bool{
	"/api/recipe/calculate": true,
	"/api/chart":            true,
}

// attempt runs fn with retries when the request is safe to repeat. Other
// POSTs and PATCHes are sent once: the backend may have applied them before
// failing, and a repeated ingredient add would get a second id.
func (c *Client) attempt(ctx context.Context, method, path string, fn func() error) error {
	switch {
	case method == http.MethodPatch,
		method == http.MethodPost && !computePaths[path]:
		return fn()
	}
	return c.retry(ctx, fn)
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
	}
	return data, nil
}

func decodeInto(v any) func(io.Reader) error {
	return func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "decode response")
		}
		return nil
	}
}

func readInto(out *[]byte) func(io.Reader) error {
	return func(r io.Reader) (err error) {
		*out, err = io.ReadAll(r)
		return err
	}
}

func discard(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, read func(io.Reader) error) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	host := c.base.Host
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s %s", method, path)
		}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %v", ErrNetwork, err), "%s %s", method, path))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkResponse(resp); err != nil {
		return err
	}
	return read(resp.Body)
}

// errorBody is the JSON error shape every backend handler writes.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	e := errors.FromStatus(resp.StatusCode, eb.Error)
	if eb.Code != "" {
		e.Code = eb.Code
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		e.Cause = ErrNotFound
	case resp.StatusCode == http.StatusNotImplemented:
		return e
	case resp.StatusCode >= 500:
		e.Cause = ErrNetwork
		return httputil.Retryable(e)
	}
	return e
}
