package assessment

import (
	"errors"
	"fmt"

	"github.com/abhisek/coursefit/internal/catalog"
)

// ErrIncompleteAnswers is returned by Replay when fewer choices than
// questions are supplied.
var ErrIncompleteAnswers = errors.New("not every question was answered")

// Answers is the non-interactive input for one assessment.
type Answers struct {
	Path    string   `json:"path"`
	Choices []int    `json:"choices"`
	Skills  []string `json:"skills"`
}

// Replay runs a whole session from recorded answers. Choices are option
// indexes, one per question of the path, in order.
func Replay(cat *catalog.Catalog, a Answers) (*Result, error) {
	s := NewSession(cat)
	if err := s.ChoosePath(a.Path); err != nil {
		return nil, err
	}

	_, total := s.Progress()
	if len(a.Choices) < total {
		return nil, fmt.Errorf("replay %s: %d of %d answers: %w", a.Path, len(a.Choices), total, ErrIncompleteAnswers)
	}
	if len(a.Choices) > total {
		return nil, fmt.Errorf("replay %s: %d answers for %d questions: %w", a.Path, len(a.Choices), total, ErrWrongPhase)
	}
	for _, choice := range a.Choices {
		if err := s.Answer(choice); err != nil {
			return nil, fmt.Errorf("replay %s: %w", a.Path, err)
		}
	}

	for _, skill := range a.Skills {
		if err := s.AddSkill(skill); err != nil {
			return nil, fmt.Errorf("replay skill %q: %w", skill, err)
		}
	}

	r, err := s.Finish()
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", a.Path, err)
	}
	return r, nil
}
