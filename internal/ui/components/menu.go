package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Hint is rendered dimmed after the label.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		hint := ""
		if item.Hint != "" {
			hint = "  " + theme.Hint.Render(item.Hint)
		}
		switch {
		case item.Disabled:
			b.WriteString(theme.Subtitle.Render("    "+item.Label) + hint)
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ "+item.Label) + hint)
		default:
			b.WriteString(theme.Unselected.Render("    "+item.Label) + hint)
		}
		b.WriteString("\n")
	}
	return b.String()
}
