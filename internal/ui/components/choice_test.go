package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestChoiceList_LetterSubmitsInUpdate(t *testing.T) {
	c := NewChoiceList("Pick one", []string{"one", "two", "three"})
	if c.Submitted || c.ChosenIndex != -1 {
		t.Fatalf("new list should be unsubmitted, got %+v", c)
	}

	c, cmd := c.Update(press('b'))
	if cmd != nil {
		t.Error("expected no command")
	}
	if !c.Submitted || c.ChosenIndex != 1 || c.Selected != 1 {
		t.Fatalf("expected option 1 submitted, got %+v", c)
	}
}

func TestChoiceList_IgnoresKeysUntilReset(t *testing.T) {
	c := NewChoiceList("Pick one", []string{"one", "two", "three"})
	c, _ = c.Update(press('a'))
	c, _ = c.Update(press('c'))
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if c.ChosenIndex != 0 || c.Selected != 0 {
		t.Fatalf("submitted list changed: %+v", c)
	}

	c.Reset("Next", []string{"x", "y"})
	if c.Submitted || c.ChosenIndex != -1 || c.Prompt != "Next" {
		t.Fatalf("reset did not clear submission: %+v", c)
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !c.Submitted || c.ChosenIndex != 1 {
		t.Fatalf("expected option 1 submitted, got %+v", c)
	}
}

func TestChoiceList_OutOfRangeLetter(t *testing.T) {
	c := NewChoiceList("Pick one", []string{"one", "two"})
	c, _ = c.Update(press('d'))
	if c.Submitted {
		t.Fatalf("letter past the options submitted: %+v", c)
	}
}
