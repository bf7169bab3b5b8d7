package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/screens/results"
	"github.com/abhisek/coursefit/internal/store"
)

type fakeRepo struct {
	records []store.ResultRecord
	err     error
}

func (f *fakeRepo) Save(context.Context, *assessment.Result) (*store.ResultRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) Latest(context.Context) (*store.ResultRecord, error) { return nil, nil }
func (f *fakeRepo) List(_ context.Context, limit int) ([]store.ResultRecord, error) {
	return f.records, f.err
}
func (f *fakeRepo) Prune(context.Context, int) error { return nil }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func record(best string, score int, at time.Time) store.ResultRecord {
	return store.ResultRecord{
		PathID:      "career-starter",
		CompletedAt: at,
		Document: assessment.Document{
			BestMatch:      best,
			BestMatchScore: score,
			CourseMatches:  map[string]int{best: score},
		},
	}
}

func load(s *HistoryScreen) {
	s.Update(s.Init()())
}

func TestHistory_ListAndOpen(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{records: []store.ResultRecord{
		record("data-analytics", 81, now),
		record("ai-engineering", 64, now.Add(-time.Hour)),
	}}
	s := New(testCatalog(t), repo)
	load(s)

	view := s.View(120, 30)
	if !strings.Contains(view, "Data Analytics") || !strings.Contains(view, "AI Engineering") {
		t.Errorf("expected both results in view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selection should stop at the last record, got %d", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("expected results screen, got %T", push.Screen)
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(testCatalog(t), &fakeRepo{})
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading state before Init completes")
	}
	load(s)
	if !strings.Contains(s.View(100, 30), "No results yet") {
		t.Error("expected empty state")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on empty list should do nothing")
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(testCatalog(t), &fakeRepo{err: errors.New("database is locked")})
	load(s)
	if !strings.Contains(s.View(100, 30), "database is locked") {
		t.Error("expected error in view")
	}
}
