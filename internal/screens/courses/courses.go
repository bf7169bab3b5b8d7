package courses

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/scoring"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/ui/components"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const listWidth = 26

// CoursesScreen lists the catalog with a detail pane for the selection:
// what the course weighs and which skills count toward it.
type CoursesScreen struct {
	cat      *catalog.Catalog
	selected int
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)

func New(cat *catalog.Catalog) *CoursesScreen {
	return &CoursesScreen{cat: cat}
}

func (s *CoursesScreen) Init() tea.Cmd { return nil }
func (s *CoursesScreen) Title() string { return "Courses" }

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.cat.Courses)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *CoursesScreen) View(width, height int) string {
	if len(s.cat.Courses) == 0 {
		return layout.Center(theme.Hint.Render("The catalog has no courses."), width, height)
	}

	var list strings.Builder
	for i, c := range s.cat.Courses {
		if i == s.selected {
			list.WriteString(theme.Selected.Render("▸ " + c.Title))
		} else {
			list.WriteString(theme.Unselected.Render("  " + c.Title))
		}
		list.WriteString("\n")
	}

	detailWidth := max(layout.ContentWidth(width)-listWidth-2, 30)
	left := lipgloss.NewStyle().Width(listWidth).Render(list.String())
	right := theme.Card.Width(detailWidth).Render(s.detail(s.cat.Courses[s.selected], detailWidth-6))

	return layout.Center(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right), width, height)
}

func (s *CoursesScreen) detail(c scoring.Course, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Title))
	b.WriteString("\n")
	if c.Description != "" {
		b.WriteString(theme.Body.Width(width).Render(c.Description))
		b.WriteString("\n")
	}

	type weight struct {
		id    scoring.TraitID
		value float64
	}
	var weights []weight
	for id, w := range c.TraitWeights {
		if w > 0 {
			weights = append(weights, weight{id, w})
		}
	}
	slices.SortFunc(weights, func(a, b weight) int {
		if a.value != b.value {
			return cmp.Compare(b.value, a.value)
		}
		return cmp.Compare(a.id, b.id)
	})

	if len(weights) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Looks for"))
		b.WriteString("\n")
		for _, w := range weights {
			bar := components.ProgressBar{
				Label:      s.cat.TraitLabel(w.id),
				LabelWidth: 14,
				Percent:    w.value,
				Suffix:     fmt.Sprintf("%.1f", w.value),
				Width:      width,
			}
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
	}

	if len(c.FactorWeights) > 0 {
		ids := make([]string, 0, len(c.FactorWeights))
		for id := range c.FactorWeights {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		labels := make([]string, 0, len(ids))
		for _, id := range ids {
			label := id
			if f, ok := s.cat.Factor(id); ok && f.Label != "" {
				label = f.Label
			}
			labels = append(labels, label)
		}
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Background that helps: "))
		b.WriteString(theme.Body.Render(strings.Join(labels, ", ")))
		b.WriteString("\n")
	}

	if len(c.RelevantSkills) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Relevant skills"))
		b.WriteString("\n")
		chips := make([]string, len(c.RelevantSkills))
		for i, sk := range c.RelevantSkills {
			chips[i] = theme.Chip.Render(sk)
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(chips, " ")))
	}
	return b.String()
}
