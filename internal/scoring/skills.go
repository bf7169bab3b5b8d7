package scoring

import (
	"errors"
	"strings"
)

const (
	// MaxSkills bounds how many skills a user may select.
	MaxSkills = 15

	// MinSkills is how many skills are required before results can be computed.
	MinSkills = 3
)

var (
	ErrEmptySkill     = errors.New("skill must not be empty")
	ErrTooManySkills  = errors.New("skill limit reached")
	ErrDuplicateSkill = errors.New("skill already selected")
)

// SkillSet is an ordered, deduplicated set of self-reported skills.
// Two skills are duplicates when they are equal after trimming, folding
// inner whitespace and lower-casing.
type SkillSet struct {
	items []string
	keys  map[string]bool
}

// NewSkillSet builds a set from skills, silently dropping empties and
// duplicates and stopping at MaxSkills.
func NewSkillSet(skills ...string) *SkillSet {
	s := &SkillSet{keys: make(map[string]bool)}
	for _, sk := range skills {
		_ = s.Add(sk)
	}
	return s
}

// Add inserts skill, preserving its display form.
func (s *SkillSet) Add(skill string) error {
	display := strings.Join(strings.Fields(skill), " ")
	if display == "" {
		return ErrEmptySkill
	}
	key := normalizeSkill(display)
	if s.keys[key] {
		return ErrDuplicateSkill
	}
	if len(s.items) >= MaxSkills {
		return ErrTooManySkills
	}
	s.keys[key] = true
	s.items = append(s.items, display)
	return nil
}

// Remove deletes skill if present and reports whether it was.
func (s *SkillSet) Remove(skill string) bool {
	key := normalizeSkill(skill)
	if !s.keys[key] {
		return false
	}
	delete(s.keys, key)
	for i, it := range s.items {
		if normalizeSkill(it) == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether skill is in the set.
func (s *SkillSet) Contains(skill string) bool {
	return s.keys[normalizeSkill(skill)]
}

// Len returns the number of skills in the set.
func (s *SkillSet) Len() int { return len(s.items) }

// Ready reports whether the set meets MinSkills.
func (s *SkillSet) Ready() bool { return len(s.items) >= MinSkills }

// Items returns a copy of the skills in insertion order.
func (s *SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.Join(strings.Fields(skill), " "))
}
