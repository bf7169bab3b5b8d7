package results

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/scoring"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/ui/components"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

const topTraits = 3

// Options tune the results screen.
type Options struct {
	// CompletedAt is shown under the heading when set.
	CompletedAt time.Time

	// Warning is shown prominently, e.g. when the result was not saved.
	Warning string

	// Retake builds a fresh assessment screen. The retake key is hidden
	// when nil.
	Retake func() screen.Screen
}

// ResultsScreen shows the ranked course matches, the discount
// eligibility and the strongest traits of one assessment.
type ResultsScreen struct {
	cat  *catalog.Catalog
	doc  assessment.Document
	opts Options
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

func New(cat *catalog.Catalog, doc assessment.Document, opts Options) *ResultsScreen {
	return &ResultsScreen{cat: cat, doc: doc, opts: opts}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Your Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	if s.opts.Retake != nil {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Retake"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "r":
		if s.opts.Retake != nil {
			next := s.opts.Retake()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var sections []string

	if s.opts.Warning != "" {
		sections = append(sections, theme.Warning.Width(cw).Render("⚠ "+s.opts.Warning))
	}

	sections = append(sections, s.renderBestMatch(cw))
	sections = append(sections, s.renderMatches(cw))
	sections = append(sections, s.renderProfile(cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Join(sections, "\n\n"))
}

func (s *ResultsScreen) renderBestMatch(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Best match"))
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("%s  %d%%",
		s.cat.CourseTitle(s.doc.BestMatch), s.doc.BestMatchScore)))

	if course, ok := s.cat.Course(s.doc.BestMatch); ok && course.Description != "" {
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw - 6).Render(course.Description))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("Discount eligibility: %d%%", s.doc.DiscountEligibility)))
	if !s.opts.CompletedAt.IsZero() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Completed " + s.opts.CompletedAt.Local().Format("Jan 2, 2006 15:04")))
	}

	return theme.HighlightCard.Width(cw).Render(b.String())
}

func (s *ResultsScreen) renderMatches(cw int) string {
	ranked := s.doc.Ranked()
	labelWidth := 0
	for _, m := range ranked {
		labelWidth = max(labelWidth, lipgloss.Width(s.cat.CourseTitle(m.CourseID)))
	}

	lines := []string{theme.Subtitle.Render("All courses")}
	for _, m := range ranked {
		bar := components.NewProgressBar(s.cat.CourseTitle(m.CourseID), float64(m.Score)/100, cw)
		bar.LabelWidth = labelWidth
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}

func (s *ResultsScreen) renderProfile(cw int) string {
	type traitScore struct {
		id    scoring.TraitID
		score int
	}
	var traits []traitScore
	for id, v := range s.doc.Traits {
		if v > 0 {
			traits = append(traits, traitScore{scoring.TraitID(id), v})
		}
	}
	slices.SortFunc(traits, func(a, b traitScore) int {
		if a.score != b.score {
			return cmp.Compare(b.score, a.score)
		}
		return cmp.Compare(a.id, b.id)
	})

	var lines []string
	if len(traits) > 0 {
		lines = append(lines, theme.Subtitle.Render("Strongest traits"))
		for _, t := range traits[:min(len(traits), topTraits)] {
			bar := components.ProgressBar{
				Label:      s.cat.TraitLabel(t.id),
				LabelWidth: 16,
				Percent:    min(float64(t.score)/scoring.TraitCeiling, 1),
				Suffix:     fmt.Sprintf("%3d", t.score),
				Width:      cw,
			}
			lines = append(lines, bar.View())
		}
	}

	if len(s.doc.Skills) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, theme.Subtitle.Render("Your skills"))
		chips := make([]string, len(s.doc.Skills))
		for i, sk := range s.doc.Skills {
			chips[i] = theme.Chip.Render(sk)
		}
		lines = append(lines, lipgloss.NewStyle().Width(cw).Render(strings.Join(chips, " ")))
	}
	return strings.Join(lines, "\n")
}
