package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/coursefit/internal/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultCacheSize = 128
	defaultCacheTTL  = 5 * time.Minute
	maxBodyBytes     = 4 << 20
)

var (
	// ErrNotConfigured is returned when no base URL is set.
	ErrNotConfigured = errors.New("blog endpoint not configured")

	// ErrNotFound is returned by Get for unknown slugs.
	ErrNotFound = errors.New("post not found")
)

// HTTPError is a non-2xx response from the content endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether the request may succeed if retried.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Retry     RetryConfig
}

type cacheEntry struct {
	posts    []Post
	post     *Post
	storedAt time.Time
}

// Client fetches posts with caching and retries. Safe for concurrent use.
type Client struct {
	base  *url.URL
	http  *http.Client
	cache *lru.Cache[string, cacheEntry]
	ttl   time.Duration
	retry RetryConfig
	log   *logger.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for retry and cache diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse blog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("blog base url %q: scheme must be http or https", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create blog cache: %w", err)
	}

	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: cache,
		ttl:   cfg.CacheTTL,
		retry: cfg.Retry.withDefaults(),
		log:   logger.Nop(),
		now:   time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "blog")
	return c, nil
}

// List returns all post summaries with plain-text excerpts.
func (c *Client) List(ctx context.Context) ([]Post, error) {
	const key = "list"
	if e, ok := c.cached(key); ok {
		return clonePosts(e.posts), nil
	}

	body, err := c.fetch(ctx, c.endpoint("posts"))
	if err != nil {
		return nil, err
	}
	posts, err := decodePosts(body)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i] = cleanPost(posts[i])
	}

	c.cache.Add(key, cacheEntry{posts: posts, storedAt: c.now()})
	return clonePosts(posts), nil
}

// Get returns one post by slug, or ErrNotFound.
func (c *Client) Get(ctx context.Context, slug string) (*Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("get post: %w", ErrNotFound)
	}
	key := "post:" + slug
	if e, ok := c.cached(key); ok {
		p := *e.post
		return &p, nil
	}

	body, err := c.fetch(ctx, c.endpoint("posts", slug))
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("get post %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	p, err := decodePost(body)
	if err != nil {
		return nil, err
	}
	cleaned := cleanPost(*p)

	c.cache.Add(key, cacheEntry{post: &cleaned, storedAt: c.now()})
	out := cleaned
	return &out, nil
}

// Purge drops every cached response.
func (c *Client) Purge() {
	c.cache.Purge()
}

func (c *Client) cached(key string) (cacheEntry, bool) {
	e, ok := c.cache.Get(key)
	if !ok {
		return cacheEntry{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.cache.Remove(key)
		return cacheEntry{}, false
	}
	return e, true
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.base
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	u.RawPath = ""
	return u.String()
}

// fetch performs a GET with retries for transient failures.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := range c.retry.MaxAttempts {
		body, err := c.get(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == c.retry.MaxAttempts-1 {
			break
		}

		wait := c.retry.backoff(attempt, err)
		c.log.Warn("blog request failed, retrying",
			"url", target, "attempt", attempt+1, "wait", wait, "error", err)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        target,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return body, nil
}

func clonePosts(in []Post) []Post {
	out := make([]Post, len(in))
	copy(out, in)
	return out
}
