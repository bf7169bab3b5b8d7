package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/blog"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const fetchTimeout = 30 * time.Second

type postsLoadedMsg struct {
	Posts []blog.Post
	Err   error
}

type postLoadedMsg struct {
	Post *blog.Post
	Err  error
}

// PostsScreen lists blog posts and opens one on Enter.
type PostsScreen struct {
	client   *blog.Client
	posts    []blog.Post
	selected int
	loaded   bool
	opening  bool
	errMsg   string
}

var _ screen.Screen = (*PostsScreen)(nil)
var _ screen.KeyHintProvider = (*PostsScreen)(nil)

func New(client *blog.Client) *PostsScreen {
	return &PostsScreen{client: client}
}

func (s *PostsScreen) Init() tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		posts, err := client.List(ctx)
		return postsLoadedMsg{Posts: posts, Err: err}
	}
}

func (s *PostsScreen) Title() string { return "Career Blog" }

func (s *PostsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Read"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PostsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.posts = msg.Posts
		s.selected = min(s.selected, max(len(s.posts)-1, 0))
		return s, nil

	case postLoadedMsg:
		s.opening = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		next := newPostScreen(msg.Post)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.opening {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.posts)-1 {
				s.selected++
			}
		case "r":
			s.client.Purge()
			s.loaded = false
			s.errMsg = ""
			return s, s.Init()
		case "enter":
			if s.selected < len(s.posts) {
				s.opening = true
				return s, s.open(s.posts[s.selected].Slug)
			}
		}
	}
	return s, nil
}

func (s *PostsScreen) open(slug string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		post, err := client.Get(ctx, slug)
		return postLoadedMsg{Post: post, Err: err}
	}
}

func (s *PostsScreen) View(width, height int) string {
	switch {
	case !s.loaded:
		return layout.Center(theme.Subtitle.Render("Loading posts..."), width, height)
	case s.errMsg != "" && len(s.posts) == 0:
		return layout.Center(theme.ErrorText.Render("Could not load posts: "+s.errMsg), width, height)
	case len(s.posts) == 0:
		return layout.Center(theme.Hint.Render("No posts published yet."), width, height)
	}

	cw := layout.ContentWidth(width)
	// Each entry takes a title line, an excerpt line and a gap.
	visible := max((height-2)/3, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.posts))

	var b strings.Builder
	for i := start; i < end; i++ {
		p := s.posts[i]
		meta := strings.TrimSpace(strings.Join([]string{p.Category, p.Date}, "  "))
		title := p.Title
		if i == s.selected {
			title = theme.Selected.Render("▸ " + title)
		} else {
			title = theme.Unselected.Render("  " + title)
		}
		if meta != "" {
			title += "  " + theme.Hint.Render(meta)
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("  " + truncate(p.Excerpt, cw-2)))
		b.WriteString("\n\n")
	}
	if s.opening {
		b.WriteString(theme.Subtitle.Render("Opening post..."))
	} else if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// PostScreen shows one post with line scrolling.
type PostScreen struct {
	post   *blog.Post
	offset int
	lines  int
	height int
}

var _ screen.Screen = (*PostScreen)(nil)
var _ screen.KeyHintProvider = (*PostScreen)(nil)

func newPostScreen(p *blog.Post) *PostScreen {
	return &PostScreen{post: p}
}

func (s *PostScreen) Init() tea.Cmd { return nil }
func (s *PostScreen) Title() string { return s.post.Title }

func (s *PostScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PostScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	page := max(s.height-1, 1)
	switch kmsg.String() {
	case "up", "k":
		s.offset--
	case "down", "j":
		s.offset++
	case "pgup":
		s.offset -= page
	case "pgdown", "space":
		s.offset += page
	case "home", "g":
		s.offset = 0
	}
	s.offset = min(max(s.offset, 0), max(s.lines-s.height, 0))
	return s, nil
}

func (s *PostScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var parts []string
	parts = append(parts, theme.Title.Width(cw).Render(s.post.Title))
	if meta := strings.TrimSpace(strings.Join([]string{s.post.Category, s.post.Date}, "  ")); meta != "" {
		parts = append(parts, theme.Hint.Render(meta))
	}
	paragraphs := blog.Paragraphs(s.post.Content)
	if len(paragraphs) == 0 && s.post.Excerpt != "" {
		paragraphs = []string{s.post.Excerpt}
	}
	for _, p := range paragraphs {
		parts = append(parts, theme.Body.Width(cw).Render(p))
	}

	all := strings.Split(strings.Join(parts, "\n\n"), "\n")
	s.lines = len(all)
	s.height = height
	start := min(s.offset, max(len(all)-height, 0))
	end := min(start+height, len(all))

	body := strings.Join(all[start:end], "\n")
	if end < len(all) {
		body += "\n" + theme.Hint.Render(fmt.Sprintf("(%d more lines)", len(all)-end))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(body))
}
