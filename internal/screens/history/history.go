package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/screens/results"
	"github.com/abhisek/coursefit/internal/store"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const (
	historyLimit = 50
	loadTimeout  = 5 * time.Second
)

type historyLoadedMsg struct {
	Records []store.ResultRecord
	Err     error
}

// HistoryScreen lists past assessment results, newest first.
type HistoryScreen struct {
	cat      *catalog.Catalog
	repo     store.ResultRepo
	records  []store.ResultRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a history screen. A nil repo shows an empty list.
func New(cat *catalog.Catalog, repo store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{cat: cat, repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		records, err := repo.List(ctx, historyLimit)
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.records) {
				rec := s.records[s.selected]
				next := results.New(s.cat, rec.Document, results.Options{CompletedAt: rec.CompletedAt})
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Center(theme.ErrorText.Render("Error: "+s.errMsg), width, height)
	case !s.loaded:
		return layout.Center(theme.Subtitle.Render("Loading past results..."), width, height)
	case len(s.records) == 0:
		return layout.Center(theme.Hint.Render("No results yet. Take the assessment first!"), width, height)
	}

	// Keep the selection on screen.
	visible := max(height-2, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.records))

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < end; i++ {
		rec := s.records[i]
		path := rec.PathID
		if p, ok := s.cat.Path(rec.PathID); ok {
			path = p.Title
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %-16s  %-22s %3d%%  discount %2d%%",
			prefix,
			rec.CompletedAt.Local().Format("Jan 02, 2006 15:04"),
			path,
			s.cat.CourseTitle(rec.Document.BestMatch),
			rec.Document.BestMatchScore,
			rec.Document.DiscountEligibility,
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
