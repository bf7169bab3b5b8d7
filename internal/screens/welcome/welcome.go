package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	compassEnd   = 400 * time.Millisecond
	bannerEnd    = 1200 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const compassArt = `    ╭─────────╮
   ╱     N     ╲
  │  W   ✦   E  │
   ╲     S     ╱
    ╰─────────╯`

var needleFrames = []string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

type tickMsg time.Time

// WelcomeScreen plays a short splash and hands over to the home screen on
// the first key press.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	compass := compassArt
	if w.elapsed >= compassEnd {
		needle := needleFrames[w.tickCount%len(needleFrames)]
		if w.elapsed >= totalDur {
			needle = "✦"
		}
		compass = strings.Replace(compass, "✦", needle, 1)
	}
	sections := []string{lipgloss.NewStyle().Foreground(theme.Secondary).Render(compass)}

	if w.elapsed >= bannerEnd {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Find the course that fits you."),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
