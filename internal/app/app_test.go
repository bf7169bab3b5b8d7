package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screens/home"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return Options{Catalog: cat}
}

func TestAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(testOptions(t), false)
	if m.router.Active().Title() != "" {
		t.Errorf("expected welcome screen, got %q", m.router.Active().Title())
	}
	if m.Init() == nil {
		t.Error("welcome screen should start its animation")
	}
}

func TestAppModel_SkipWelcome(t *testing.T) {
	m := newAppModel(testOptions(t), true)
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("expected home screen, got %T", m.router.Active())
	}
}

func TestAppModel_EscPopsOnlyAboveRoot(t *testing.T) {
	m := newAppModel(testOptions(t), true)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc at root should do nothing")
	}

	// Start an assessment from the home menu.
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m.Update(cmd())
	if m.router.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", m.router.Depth())
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(testOptions(t), true)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	frame := updated.(AppModel).render()
	if !strings.Contains(frame, "CourseFit") {
		t.Error("expected header in view")
	}
	if !strings.Contains(frame, "Start assessment") {
		t.Error("expected home menu in view")
	}

	small, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(small.(AppModel).render(), "too small") {
		t.Error("expected size warning")
	}
}
