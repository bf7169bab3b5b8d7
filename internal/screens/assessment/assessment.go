package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	assess "github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/logger"
	"github.com/abhisek/coursefit/internal/router"
	"github.com/abhisek/coursefit/internal/scoring"
	"github.com/abhisek/coursefit/internal/screen"
	"github.com/abhisek/coursefit/internal/screens/results"
	"github.com/abhisek/coursefit/internal/store"
	"github.com/abhisek/coursefit/internal/ui/components"
	"github.com/abhisek/coursefit/internal/ui/layout"
)

const saveTimeout = 10 * time.Second

var errNoRecorder = errors.New("no result store configured")

type focus int

const (
	focusInput       focus = iota // Typing a custom skill
	focusSuggestions              // Browsing the suggested skills
)

// Deps are the collaborators of an assessment screen. Recorder may be nil,
// in which case results are shown but not saved.
type Deps struct {
	Catalog  *catalog.Catalog
	Recorder *store.Recorder
	Logger   *logger.Logger
}

// AssessmentScreen walks the user through path selection, the path's
// questions and skill selection, then saves and shows the result.
type AssessmentScreen struct {
	deps Deps
	log  *logger.Logger
	sess *assess.Session

	choices    components.ChoiceList
	input      components.TextInput
	focus      focus
	suggestion int
	notice     string
	saving     bool
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.StatusProvider = (*AssessmentScreen)(nil)

func New(deps Deps) *AssessmentScreen {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	sess := assess.NewSession(deps.Catalog)

	paths := deps.Catalog.Paths
	options := make([]string, len(paths))
	for i, p := range paths {
		options[i] = p.Title
		if p.Description != "" {
			options[i] += ": " + p.Description
		}
	}

	log = log.With("component", "assessment", "session_id", sess.ID)
	log.Info("assessment started")

	return &AssessmentScreen{
		deps:    deps,
		log:     log,
		sess:    sess,
		choices: components.NewChoiceList("Which of these describes you best?", options),
		input:   components.NewTextInput("Type a skill and press Enter", 40),
	}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return nil
}

func (s *AssessmentScreen) Title() string {
	switch s.sess.Phase() {
	case assess.PhaseChoosePath:
		return "Choose Your Path"
	case assess.PhaseQuestions:
		p, _ := s.sess.Path()
		return p.Title
	case assess.PhaseSkills:
		return "Your Skills"
	default:
		return "Assessment"
	}
}

func (s *AssessmentScreen) Status() string {
	switch s.sess.Phase() {
	case assess.PhaseQuestions:
		answered, total := s.sess.Progress()
		return fmt.Sprintf("Question %d/%d", answered+1, total)
	case assess.PhaseSkills:
		return fmt.Sprintf("Skills %d/%d", len(s.sess.Skills()), scoring.MaxSkills)
	}
	return ""
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	switch s.sess.Phase() {
	case assess.PhaseSkills:
		hints := []layout.KeyHint{{Key: "Tab", Description: "Switch list"}}
		if s.focus == focusInput {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Add"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Toggle"})
		}
		return append(hints,
			layout.KeyHint{Key: "Ctrl+X", Description: "Remove last"},
			layout.KeyHint{Key: "Ctrl+S", Description: "See results"},
			layout.KeyHint{Key: "Esc", Description: "Quit"},
		)
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "A-D", Description: "Pick"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return s.handleSaved(msg)

	case tea.KeyPressMsg:
		if s.saving {
			return s, nil
		}
		if s.sess.Phase() == assess.PhaseSkills {
			return s.handleSkillsKey(msg)
		}
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		if s.choices.Submitted {
			idx := s.choices.ChosenIndex
			s.choices.Submitted = false
			return s.handleChosen(idx)
		}
		return s, cmd
	}

	if s.sess.Phase() == assess.PhaseSkills && s.focus == focusInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AssessmentScreen) handleChosen(idx int) (screen.Screen, tea.Cmd) {
	switch s.sess.Phase() {
	case assess.PhaseChoosePath:
		paths := s.deps.Catalog.Paths
		if idx < 0 || idx >= len(paths) {
			return s, nil
		}
		if err := s.sess.ChoosePath(paths[idx].ID); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.log.Debug("path chosen", "path", paths[idx].ID)
		s.loadQuestion()
		return s, nil

	case assess.PhaseQuestions:
		if err := s.sess.Answer(idx); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.notice = ""
		if s.sess.Phase() == assess.PhaseSkills {
			s.focus = focusInput
			return s, s.input.Init()
		}
		s.loadQuestion()
	}
	return s, nil
}

func (s *AssessmentScreen) loadQuestion() {
	q, ok := s.sess.CurrentQuestion()
	if !ok {
		return
	}
	labels := make([]string, len(q.Options))
	for i, o := range q.Options {
		labels[i] = o.Label
	}
	s.choices.Reset(q.Prompt, labels)
}

func (s *AssessmentScreen) handleSkillsKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if s.focus == focusInput {
			s.focus = focusSuggestions
			s.input.Model.Blur()
			return s, nil
		}
		s.focus = focusInput
		return s, s.input.Model.Focus()
	case "ctrl+s":
		return s.finish()
	case "ctrl+x":
		skills := s.sess.Skills()
		if len(skills) > 0 {
			s.removeSkill(skills[len(skills)-1])
		}
		return s, nil
	}

	if s.focus == focusSuggestions {
		return s.handleSuggestionKey(msg)
	}

	if msg.String() == "enter" {
		skill := s.input.Take()
		if skill == "" {
			if s.sess.CanFinish() {
				return s.finish()
			}
			s.notice = fmt.Sprintf("Add at least %d skills to see your results.", scoring.MinSkills)
			return s, nil
		}
		s.addSkill(skill)
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AssessmentScreen) handleSuggestionKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	suggestions := s.deps.Catalog.SuggestedSkills
	if len(suggestions) == 0 {
		return s, nil
	}
	switch msg.String() {
	case "up", "k":
		if s.suggestion > 0 {
			s.suggestion--
		}
	case "down", "j":
		if s.suggestion < len(suggestions)-1 {
			s.suggestion++
		}
	case "enter", "space":
		skill := suggestions[s.suggestion]
		if s.sess.HasSkill(skill) {
			s.removeSkill(skill)
		} else {
			s.addSkill(skill)
		}
	}
	return s, nil
}

func (s *AssessmentScreen) addSkill(skill string) {
	err := s.sess.AddSkill(skill)
	switch {
	case err == nil:
		s.notice = ""
	case errors.Is(err, scoring.ErrDuplicateSkill):
		s.notice = fmt.Sprintf("%q is already on your list.", skill)
	case errors.Is(err, scoring.ErrTooManySkills):
		s.notice = fmt.Sprintf("You can list up to %d skills.", scoring.MaxSkills)
	default:
		s.notice = err.Error()
	}
}

func (s *AssessmentScreen) removeSkill(skill string) {
	if _, err := s.sess.RemoveSkill(skill); err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = ""
}

func (s *AssessmentScreen) finish() (screen.Screen, tea.Cmd) {
	res, err := s.sess.Finish()
	if err != nil {
		if errors.Is(err, assess.ErrNotEnoughSkills) {
			s.notice = fmt.Sprintf("Add at least %d skills to see your results.", scoring.MinSkills)
		} else {
			s.notice = err.Error()
		}
		return s, nil
	}
	s.saving = true
	s.log.Info("assessment finished",
		"path", res.PathID,
		"best_match", res.BestMatch,
		"best_match_score", res.BestMatchScore,
		"discount", res.DiscountEligibility,
	)
	return s, s.save(res)
}

func (s *AssessmentScreen) save(res *assess.Result) tea.Cmd {
	rec := s.deps.Recorder
	return func() tea.Msg {
		if rec == nil {
			return savedMsg{Result: res, Err: errNoRecorder}
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{Result: res, Err: rec.Record(ctx, res)}
	}
}

func (s *AssessmentScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	opts := results.Options{
		CompletedAt: msg.Result.CompletedAt,
		Retake: func() screen.Screen {
			return New(s.deps)
		},
	}
	if msg.Err != nil {
		s.log.Warn("assessment result not saved", "error", msg.Err)
		opts.Warning = "Your results could not be saved: " + msg.Err.Error()
	}
	next := results.New(s.deps.Catalog, msg.Result.Document(), opts)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
