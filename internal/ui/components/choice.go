package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/ui/theme"
)

// ChoiceList shows a prompt with lettered options. Enter or a letter key
// submits an option; the owner reads ChosenIndex in the same Update and
// calls Reset to load the next prompt.
type ChoiceList struct {
	Prompt      string
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

func NewChoiceList(prompt string, options []string) ChoiceList {
	return ChoiceList{Prompt: prompt, Options: options, ChosenIndex: -1}
}

// Reset loads a new prompt, moves the cursor to the top and clears the
// submission.
func (c *ChoiceList) Reset(prompt string, options []string) {
	c.Prompt = prompt
	c.Options = options
	c.Selected = 0
	c.Submitted = false
	c.ChosenIndex = -1
}

// Update handles navigation and selection. Keys are ignored once an option
// is submitted until Reset.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.Submitted || len(c.Options) == 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, nil
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
		return c, nil
	case "enter":
		c.submit(c.Selected)
		return c, nil
	}

	if len(key) == 1 {
		idx := int(strings.ToLower(key)[0]) - 'a'
		if idx >= 0 && idx < len(c.Options) {
			c.submit(idx)
		}
	}
	return c, nil
}

func (c *ChoiceList) submit(idx int) {
	c.Selected = idx
	c.Submitted = true
	c.ChosenIndex = idx
}

func (c ChoiceList) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(c.Prompt))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		style := theme.Unselected
		if i == c.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
