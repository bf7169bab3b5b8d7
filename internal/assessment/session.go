// Package assessment drives one run of the quiz: path selection, the
// question sequence, skill selection and finalization.
package assessment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/scoring"
)

var (
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrUnknownPath      = errors.New("unknown path")
	ErrInvalidOption    = errors.New("option index out of range")
	ErrNotEnoughSkills  = fmt.Errorf("at least %d skills required", scoring.MinSkills)
	ErrAlreadyFinalized = errors.New("assessment already finalized")
)

// Phase is the current step of a session.
type Phase int

const (
	PhaseChoosePath Phase = iota // Waiting for the path selection
	PhaseQuestions               // Answering the path's questions
	PhaseSkills                  // Selecting self-reported skills
	PhaseComplete                // Finalized; read-only
)

func (p Phase) String() string {
	switch p {
	case PhaseChoosePath:
		return "choose-path"
	case PhaseQuestions:
		return "questions"
	case PhaseSkills:
		return "skills"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Session owns the profile of a single assessment. It is not safe for
// concurrent use; restarting means discarding it and creating a new one.
type Session struct {
	// ID identifies the session in persisted history.
	ID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	catalog *catalog.Catalog
	now     func() time.Time

	phase   Phase
	path    catalog.Path
	index   int
	choices []int
	profile scoring.Profile
	skills  *scoring.SkillSet
	result  *Result
}

// NewSession starts an empty session against cat.
func NewSession(cat *catalog.Catalog) *Session {
	return newSession(cat, time.Now)
}

func newSession(cat *catalog.Catalog, now func() time.Time) *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: now(),
		catalog:   cat,
		now:       now,
		phase:     PhaseChoosePath,
		profile:   scoring.NewProfile(),
		skills:    scoring.NewSkillSet(),
	}
}

// Catalog returns the catalog the session runs against.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Path returns the chosen path. ok is false before ChoosePath.
func (s *Session) Path() (p catalog.Path, ok bool) {
	if s.phase == PhaseChoosePath {
		return catalog.Path{}, false
	}
	return s.path, true
}

// ChoosePath fixes the question set. It may only be called once.
func (s *Session) ChoosePath(id string) error {
	if s.phase != PhaseChoosePath {
		return fmt.Errorf("choose path: %w", ErrWrongPhase)
	}
	p, ok := s.catalog.Path(id)
	if !ok {
		return fmt.Errorf("choose path %q: %w", id, ErrUnknownPath)
	}
	s.path = p
	s.phase = PhaseQuestions
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (catalog.Question, bool) {
	if s.phase != PhaseQuestions {
		return catalog.Question{}, false
	}
	return s.path.Questions[s.index], true
}

// Progress returns how many questions have been answered out of the total
// for the chosen path.
func (s *Session) Progress() (answered, total int) {
	return len(s.choices), len(s.path.Questions)
}

// Answer applies the selected option of the current question to the
// profile and advances. After the last question the session moves to the
// skills phase.
func (s *Session) Answer(optionIndex int) error {
	q, ok := s.CurrentQuestion()
	if !ok {
		return fmt.Errorf("answer: %w", ErrWrongPhase)
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("answer %q option %d: %w", q.ID, optionIndex, ErrInvalidOption)
	}

	opt := q.Options[optionIndex]
	s.profile.Traits = scoring.ApplyAnswer(s.profile.Traits, opt.Traits)
	s.profile.Factors = scoring.ApplyBackgroundFactors(s.profile.Factors, opt.Factors)
	s.choices = append(s.choices, optionIndex)

	s.index++
	if s.index >= len(s.path.Questions) {
		s.phase = PhaseSkills
	}
	return nil
}

// Traits returns a copy of the current trait accumulators.
func (s *Session) Traits() scoring.Traits { return s.profile.Traits.Clone() }

// Factors returns a copy of the current background factors.
func (s *Session) Factors() scoring.Factors { return s.profile.Factors.Clone() }

// AddSkill adds a self-reported skill. See scoring.SkillSet for the
// dedup and bound rules.
func (s *Session) AddSkill(skill string) error {
	if s.phase != PhaseSkills {
		return fmt.Errorf("add skill: %w", ErrWrongPhase)
	}
	return s.skills.Add(skill)
}

// RemoveSkill removes a skill and reports whether it was selected.
func (s *Session) RemoveSkill(skill string) (bool, error) {
	if s.phase != PhaseSkills {
		return false, fmt.Errorf("remove skill: %w", ErrWrongPhase)
	}
	return s.skills.Remove(skill), nil
}

// HasSkill reports whether skill is selected, using the same folding as
// AddSkill.
func (s *Session) HasSkill(skill string) bool { return s.skills.Contains(skill) }

// Skills returns the selected skills in insertion order.
func (s *Session) Skills() []string { return s.skills.Items() }

// CanFinish reports whether Finish would succeed.
func (s *Session) CanFinish() bool {
	return s.phase == PhaseSkills && s.skills.Ready()
}

// Finish finalizes the profile exactly once and returns the result.
func (s *Session) Finish() (*Result, error) {
	switch s.phase {
	case PhaseComplete:
		return nil, ErrAlreadyFinalized
	case PhaseSkills:
	default:
		return nil, fmt.Errorf("finish: %w", ErrWrongPhase)
	}
	if !s.skills.Ready() {
		return nil, ErrNotEnoughSkills
	}

	s.profile.Skills = s.skills.Items()
	r := Finalize(s.profile, s.catalog)
	r.SessionID = s.ID
	r.PathID = s.path.ID
	r.Choices = append([]int(nil), s.choices...)
	r.CompletedAt = s.now()

	s.result = r
	s.phase = PhaseComplete
	return r, nil
}

// Result returns the finalized result, or nil before Finish.
func (s *Session) Result() *Result { return s.result }

// Answers returns the inputs recorded so far in replayable form.
func (s *Session) Answers() Answers {
	return Answers{
		Path:    s.path.ID,
		Choices: append([]int(nil), s.choices...),
		Skills:  s.skills.Items(),
	}
}
