package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/blog"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/logger"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screen"
	assessmentscreen "github.com/abhisek/coursefit/internal/screens/assessment"
	blogscreen "github.com/abhisek/coursefit/internal/screens/blog"
	"github.com/abhisek/coursefit/internal/screens/courses"
	"github.com/abhisek/coursefit/internal/screens/history"
	"github.com/abhisek/coursefit/internal/screens/results"
	"github.com/abhisek/coursefit/internal/store"
	"github.com/abhisek/coursefit/internal/ui/components"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const loadTimeout = 5 * time.Second

// Deps are shared by every screen reachable from home. Recorder and Blog
// are optional; the matching menu entries are disabled without them.
type Deps struct {
	Catalog  *catalog.Catalog
	Recorder *store.Recorder
	Blog     *blog.Client
	Logger   *logger.Logger
}

// noticeMsg shows a one-line message under the menu.
type noticeMsg string

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	h := &HomeScreen{deps: deps}

	noStore := deps.Recorder == nil
	noBlog := deps.Blog == nil
	storeHint, blogHint := "", ""
	if noStore {
		storeHint = "(no result store)"
	}
	if noBlog {
		blogHint = "(not configured)"
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start assessment", Action: h.startAssessment},
		{Label: "Latest result", Hint: storeHint, Disabled: noStore, Action: h.openLatest},
		{Label: "Past results", Hint: storeHint, Disabled: noStore, Action: h.openHistory},
		{Label: "Browse courses", Action: h.openCourses},
		{Label: "Career blog", Hint: blogHint, Disabled: noBlog, Action: h.openBlog},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) newAssessment() screen.Screen {
	return assessmentscreen.New(assessmentscreen.Deps{
		Catalog:  h.deps.Catalog,
		Recorder: h.deps.Recorder,
		Logger:   h.deps.Logger,
	})
}

func (h *HomeScreen) startAssessment() tea.Cmd {
	next := h.newAssessment()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// openLatest reads the stored document when chosen so it reflects an
// assessment finished since the menu was built.
func (h *HomeScreen) openLatest() tea.Cmd {
	rec := h.deps.Recorder
	cat := h.deps.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		doc, err := rec.Latest(ctx)
		if err != nil {
			h.deps.Logger.Warn("load latest result", "error", err)
			return noticeMsg("Could not load your latest result: " + err.Error())
		}
		if doc == nil {
			return noticeMsg("No saved result yet. Start an assessment first.")
		}
		return router.PushScreenMsg{Screen: results.New(cat, *doc, results.Options{Retake: h.newAssessment})}
	}
}

func (h *HomeScreen) openHistory() tea.Cmd {
	next := history.New(h.deps.Catalog, h.deps.Recorder.History())
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) openCourses() tea.Cmd {
	next := courses.New(h.deps.Catalog)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) openBlog() tea.Cmd {
	next := blogscreen.New(h.deps.Blog)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		h.notice = string(msg)
		return h, nil
	case tea.KeyPressMsg:
		h.notice = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(layout.ContentWidth(width), 56)

	sections := []string{
		theme.Title.Render("Find the course that fits you"),
		theme.Subtitle.Width(cw).Align(lipgloss.Center).Render(
			"Answer a few questions about how you think and work, list the skills " +
				"you have, and we will rank our courses for you."),
		theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	if h.notice != "" {
		sections = append(sections, theme.Warning.Width(cw).Render(h.notice))
	}

	return layout.Center(strings.Join(sections, "\n\n"), width, height)
}
