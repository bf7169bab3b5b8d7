package home

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/router"
	assessmentscreen "github.com/abhisek/coursefit/internal/screens/assessment"
	"github.com/abhisek/coursefit/internal/screens/courses"
	"github.com/abhisek/coursefit/internal/store"
)

func testDeps(t *testing.T, withStore bool) Deps {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	deps := Deps{Catalog: cat}
	if withStore {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		st, err := store.Open(fmt.Sprintf("file:home_%s?mode=memory&cache=shared", name))
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { st.Close() })
		deps.Recorder = store.NewRecorder(st.KV(), st.ResultRepo(), 0, nil)
	}
	return deps
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestHome_StartAssessment(t *testing.T) {
	h := New(testDeps(t, false))
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*assessmentscreen.AssessmentScreen); !ok {
		t.Errorf("expected assessment screen, got %T", push.Screen)
	}
}

func TestHome_DisabledItemsSkipped(t *testing.T) {
	h := New(testDeps(t, false))
	press(h, tea.KeyDown)
	if h.menu.Items[h.menu.Selected].Label != "Browse courses" {
		t.Fatalf("expected to skip store items, on %q", h.menu.Items[h.menu.Selected].Label)
	}
	push := press(h, tea.KeyEnter)().(router.PushScreenMsg)
	if _, ok := push.Screen.(*courses.CoursesScreen); !ok {
		t.Errorf("expected courses screen, got %T", push.Screen)
	}
	if !strings.Contains(h.View(100, 30), "not configured") {
		t.Error("expected disabled blog hint")
	}
}

func TestHome_LatestWithoutResult(t *testing.T) {
	h := New(testDeps(t, true))
	press(h, tea.KeyDown)
	msg := press(h, tea.KeyEnter)()
	notice, ok := msg.(noticeMsg)
	if !ok {
		t.Fatalf("expected noticeMsg, got %T", msg)
	}
	h.Update(notice)
	if !strings.Contains(h.View(100, 30), "No saved result yet") {
		t.Error("expected notice in view")
	}
}
