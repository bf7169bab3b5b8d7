package blog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `[
	{"id": 1, "title": " Why analytics ", "slug": "why-analytics",
	 "excerpt": "<p>Data <strong>matters</strong>.</p>\n<p>A lot.</p>",
	 "category": "Data", "date": "2024-05-01", "image": "/img/a.png"},
	{"id": "two", "title": "Leading teams", "slug": "leading-teams",
	 "excerpt": "Plain   text", "category": "Leadership", "date": "2024-06-01", "image": ""}
]`

type fakeServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeServer(t *testing.T, handler http.HandlerFunc) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newTestClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: base + "/api/"})
	require.NoError(t, err)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestList(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listBody))
	})
	c := newTestClient(t, srv.URL)

	posts, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "Why analytics", posts[0].Title)
	assert.Equal(t, "Data matters. A lot.", posts[0].Excerpt)
	assert.Equal(t, "two", posts[1].ID)
	assert.Equal(t, "Plain text", posts[1].Excerpt)
}

func TestList_WrappedResponse(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts": ` + listBody + `}`))
	})
	posts, err := newTestClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestList_Cached(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listBody))
	})
	c := newTestClient(t, srv.URL)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.List(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "Why analytics", second[0].Title, "cached slice must not be shared")

	now = now.Add(defaultCacheTTL)
	_, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load(), "expired entry must be refetched")

	c.Purge()
	_, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), srv.hits.Load())
}

func TestList_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(listBody))
	})

	posts, err := newTestClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int32(3), srv.hits.Load())
}

func TestList_GivesUpAfterMaxAttempts(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := newTestClient(t, srv.URL).List(context.Background())
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadGateway, he.StatusCode)
	assert.Equal(t, int32(DefaultRetryConfig().MaxAttempts), srv.hits.Load())
}

func TestList_DoesNotRetryClientErrors(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := newTestClient(t, srv.URL).List(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestList_ContextCanceledDuringBackoff(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, srv.URL)
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGet(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts/why-analytics":
			_, _ = w.Write([]byte(`{"post": {"id": 1, "slug": "why-analytics", "title": "Why analytics",
				"excerpt": "<em>Hi</em>", "content": "<p>Body</p>"}}`))
		default:
			http.NotFound(w, r)
		}
	})
	c := newTestClient(t, srv.URL)

	p, err := c.Get(context.Background(), "why-analytics")
	require.NoError(t, err)
	assert.Equal(t, "Hi", p.Excerpt)
	assert.Equal(t, "<p>Body</p>", p.Content)

	_, err = c.Get(context.Background(), "why-analytics")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	_, err = c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  already   plain ", "already plain"},
		{"<p>One</p><p>Two &amp; three</p>", "OneTwo & three"},
		{"<div>Keep<script>alert(1)</script> this</div>", "Keep this"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(tt.in), "PlainText(%q)", tt.in)
	}
}

func TestParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"just text", []string{"just text"}},
		{"<h2>Why</h2><p>First  line</p><p></p><ul><li>a</li><li><p>b</p></li></ul>", []string{"Why", "First line", "a", "b"}},
		{"<div>No blocks <b>here</b></div>", []string{"No blocks here"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Paragraphs(tt.in), "Paragraphs(%q)", tt.in)
	}
}

func TestBackoff(t *testing.T) {
	cfg := DefaultRetryConfig()

	for attempt := range 3 {
		base := float64(cfg.InitialWait) * float64(int(1)<<attempt)
		got := cfg.backoff(attempt, assert.AnError)
		assert.InDelta(t, base, float64(got), base*0.2+1)
	}

	capped := cfg.backoff(20, assert.AnError)
	assert.LessOrEqual(t, capped, time.Duration(float64(cfg.MaxWait)*1.2))

	rl := &HTTPError{StatusCode: http.StatusTooManyRequests, RetryAfter: 2 * time.Second}
	assert.Equal(t, 2*time.Second, cfg.backoff(0, rl))
}
