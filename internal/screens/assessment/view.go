package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	assess "github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/scoring"
	"github.com/abhisek/coursefit/internal/ui/components"
	"github.com/abhisek/coursefit/internal/ui/layout"
	"github.com/abhisek/coursefit/internal/ui/theme"
)

// maxVisibleSuggestions caps the suggestion list so the skills view fits
// the minimum terminal height.
const maxVisibleSuggestions = 6

func (s *AssessmentScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var body string
	switch {
	case s.saving:
		body = theme.Body.Render("Scoring your answers and saving your results...")
	case s.sess.Phase() == assess.PhaseChoosePath:
		body = s.viewChoices(cw, "")
	case s.sess.Phase() == assess.PhaseQuestions:
		answered, total := s.sess.Progress()
		progress := components.NewProgressBar("Progress", float64(answered)/float64(total), cw)
		body = s.viewChoices(cw, progress.View())
	case s.sess.Phase() == assess.PhaseSkills:
		body = s.viewSkills(cw)
	}

	if s.notice != "" {
		body += "\n\n" + theme.Warning.Width(cw).Render(s.notice)
	}
	return layout.Center(body, width, height)
}

func (s *AssessmentScreen) viewChoices(cw int, header string) string {
	card := theme.Card.Width(cw).Render(s.choices.View(cw - 6))
	if header == "" {
		return card
	}
	return header + "\n\n" + card
}

func (s *AssessmentScreen) viewSkills(cw int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Which skills do you already have?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf(
		"Add at least %d and up to %d. They are matched against each course.",
		scoring.MinSkills, scoring.MaxSkills)))
	b.WriteString("\n\n")

	skills := s.sess.Skills()
	if len(skills) == 0 {
		b.WriteString(theme.Hint.Render("No skills yet"))
	} else {
		chips := make([]string, len(skills))
		for i, sk := range skills {
			chips[i] = theme.Chip.Render(sk)
		}
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(strings.Join(chips, " ")))
	}
	b.WriteString("\n\n")

	input := s.input.View()
	if s.focus != focusInput {
		input = theme.Subtitle.Render(input)
	}
	b.WriteString(input)
	b.WriteString("\n\n")

	b.WriteString(s.viewSuggestions())
	b.WriteString("\n")

	b.WriteString(components.NewButton("See my results", s.sess.CanFinish()).View())
	return b.String()
}

func (s *AssessmentScreen) viewSuggestions() string {
	suggestions := s.deps.Catalog.SuggestedSkills
	if len(suggestions) == 0 {
		return ""
	}

	start := 0
	if s.suggestion >= maxVisibleSuggestions {
		start = s.suggestion - maxVisibleSuggestions + 1
	}
	end := min(start+maxVisibleSuggestions, len(suggestions))

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Suggestions"))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		mark := "[ ]"
		if s.sess.HasSkill(suggestions[i]) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, suggestions[i])
		if s.focus == focusSuggestions && i == s.suggestion {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if end < len(suggestions) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d more", len(suggestions)-end)))
		b.WriteString("\n")
	}
	return b.String()
}
