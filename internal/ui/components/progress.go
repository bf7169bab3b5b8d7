package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/ui/theme"
)

// ProgressBar renders a labelled horizontal bar.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Percent    float64
	Suffix     string
	Width      int
}

// NewProgressBar builds a bar showing percent (0..1) with a trailing
// "NN%" suffix.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Suffix:  fmt.Sprintf("%3d%%", int(percent*100+0.5)),
		Width:   width,
	}
}

func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			style = style.Width(p.LabelWidth)
		}
		result = style.Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Suffix)
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		suffix
	return result
}
