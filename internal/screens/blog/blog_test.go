package blog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/blog"
	"github.com/abhisek/coursefit/internal/router"
)

const postsJSON = `[
  {"id": 1, "title": "Picking a first specialization", "slug": "first-specialization",
   "excerpt": "<p>How to choose.</p>", "category": "Careers", "date": "2024-05-01"},
  {"id": 2, "title": "From marketing to data", "slug": "marketing-to-data",
   "excerpt": "A switcher's story", "category": "Stories", "date": "2024-06-01"}
]`

const postJSON = `{"post": {"id": 2, "title": "From marketing to data", "slug": "marketing-to-data",
  "content": "<h2>The move</h2><p>It started with spreadsheets.</p>"}}`

func newTestClient(t *testing.T) *blog.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/posts":
			w.Write([]byte(postsJSON))
		case "/posts/marketing-to-data":
			w.Write([]byte(postJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := blog.New(blog.Config{BaseURL: srv.URL, Retry: blog.RetryConfig{MaxAttempts: 1}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestPostsScreen_ListAndOpen(t *testing.T) {
	s := New(newTestClient(t))
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading state")
	}
	s.Update(s.Init()())

	view := s.View(100, 30)
	if !strings.Contains(view, "Picking a first specialization") || !strings.Contains(view, "How to choose.") {
		t.Errorf("expected posts in view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if !s.opening {
		t.Error("expected opening state")
	}

	_, cmd = s.Update(cmd())
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	post, ok := push.Screen.(*PostScreen)
	if !ok {
		t.Fatalf("expected post screen, got %T", push.Screen)
	}
	pv := post.View(100, 30)
	if !strings.Contains(pv, "The move") || !strings.Contains(pv, "It started with spreadsheets.") {
		t.Errorf("expected post content:\n%s", pv)
	}
}

func TestPostsScreen_OpenMissingPost(t *testing.T) {
	s := New(newTestClient(t))
	s.Update(s.Init()())

	// The first post has no detail endpoint on the fake server.
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if s.opening {
		t.Error("opening should reset after failure")
	}
	if !strings.Contains(s.View(100, 30), "not found") {
		t.Error("expected not-found error in view")
	}
}

func TestPostScreen_Scroll(t *testing.T) {
	content := strings.Repeat("<p>Paragraph</p>", 40)
	s := newPostScreen(&blog.Post{Title: "Long", Content: content})
	s.View(80, 10)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 0 {
		t.Errorf("offset should not go negative, got %d", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	if s.offset != 9 {
		t.Errorf("page down offset = %d, want 9", s.offset)
	}
	for range 100 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.offset != s.lines-10 {
		t.Errorf("offset should stop at the end, got %d of %d", s.offset, s.lines)
	}
}
