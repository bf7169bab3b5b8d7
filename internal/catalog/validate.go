package catalog

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursefit/internal/scoring"
)

const (
	// MaxTraitsPerOption bounds how many traits a single option may award.
	MaxTraitsPerOption = 3

	// MaxTraitDelta is the largest number of points an option awards a trait.
	MaxTraitDelta = 2
)

// Validate checks every cross reference and bound the scoring engine
// relies on. All failures wrap ErrInvalidCatalog.
func (c *Catalog) Validate() error {
	if err := c.validateTraits(); err != nil {
		return err
	}
	if err := c.validateFactors(); err != nil {
		return err
	}
	if err := c.validateCourses(); err != nil {
		return err
	}
	return c.validatePaths()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

func (c *Catalog) validateTraits() error {
	seen := make(map[scoring.TraitID]bool)
	for _, t := range c.Traits {
		if !scoring.IsKnownTrait(t.ID) {
			return invalid("unknown trait %q", t.ID)
		}
		if seen[t.ID] {
			return invalid("duplicate trait %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (c *Catalog) validateFactors() error {
	seen := make(map[string]bool)
	limits := scoring.DiscountCeilings()
	for _, f := range c.Factors {
		if f.ID == "" {
			return invalid("factor with empty id")
		}
		if seen[f.ID] {
			return invalid("duplicate factor %q", f.ID)
		}
		seen[f.ID] = true

		if f.Ceiling < 0 {
			return invalid("factor %q: negative ceiling", f.ID)
		}
		if f.Kind == scoring.FactorCategorical && f.Ceiling != 0 {
			return invalid("factor %q: categorical factors have no ceiling", f.ID)
		}
		if limit, ok := limits[f.ID]; ok {
			if f.Kind != scoring.FactorNumeric {
				return invalid("factor %q must be numeric", f.ID)
			}
			if f.Ceiling > limit {
				return invalid("factor %q: ceiling %g exceeds %g", f.ID, f.Ceiling, limit)
			}
		}
	}
	return nil
}

func (c *Catalog) validateCourses() error {
	if len(c.Courses) == 0 {
		return invalid("no courses")
	}
	seen := make(map[string]bool)
	for _, course := range c.Courses {
		if course.ID == "" {
			return invalid("course with empty id")
		}
		if seen[course.ID] {
			return invalid("duplicate course %q", course.ID)
		}
		seen[course.ID] = true

		if len(course.TraitWeights) == 0 {
			return invalid("course %q has no trait weights", course.ID)
		}
		for id, w := range course.TraitWeights {
			if !scoring.IsKnownTrait(id) {
				return invalid("course %q: unknown trait %q", course.ID, id)
			}
			if w < 0 || w > 1 {
				return invalid("course %q: trait %q weight %g outside [0,1]", course.ID, id, w)
			}
		}
		for name, w := range course.FactorWeights {
			f, ok := c.Factor(name)
			if !ok {
				return invalid("course %q: unknown factor %q", course.ID, name)
			}
			if f.Kind != scoring.FactorNumeric {
				return invalid("course %q: factor %q is not numeric", course.ID, name)
			}
			if w < 0 || w > 1 {
				return invalid("course %q: factor %q weight %g outside [0,1]", course.ID, name, w)
			}
		}
	}
	return nil
}

func (c *Catalog) validatePaths() error {
	if len(c.Paths) == 0 {
		return invalid("no paths")
	}
	seen := make(map[string]bool)
	for _, p := range c.Paths {
		if p.ID == "" {
			return invalid("path with empty id")
		}
		if seen[p.ID] {
			return invalid("duplicate path %q", p.ID)
		}
		seen[p.ID] = true

		if len(p.Questions) == 0 {
			return invalid("path %q has no questions", p.ID)
		}
		questions := make(map[string]bool)
		for _, q := range p.Questions {
			if q.ID == "" {
				return invalid("path %q: question with empty id", p.ID)
			}
			if questions[q.ID] {
				return invalid("path %q: duplicate question %q", p.ID, q.ID)
			}
			questions[q.ID] = true

			if strings.TrimSpace(q.Prompt) == "" {
				return invalid("path %q question %q: empty prompt", p.ID, q.ID)
			}
			if len(q.Options) == 0 {
				return invalid("path %q question %q: no options", p.ID, q.ID)
			}
			for i, o := range q.Options {
				if err := c.validateOption(o); err != nil {
					return fmt.Errorf("path %q question %q option %d: %w", p.ID, q.ID, i, err)
				}
			}
		}
	}
	return nil
}

func (c *Catalog) validateOption(o Option) error {
	if strings.TrimSpace(o.Label) == "" {
		return invalid("empty label")
	}
	if len(o.Traits) > MaxTraitsPerOption {
		return invalid("awards %d traits, at most %d allowed", len(o.Traits), MaxTraitsPerOption)
	}
	for id, d := range o.Traits {
		if !scoring.IsKnownTrait(id) {
			return invalid("unknown trait %q", id)
		}
		if d < 1 || d > MaxTraitDelta {
			return invalid("trait %q delta %d outside [1,%d]", id, d, MaxTraitDelta)
		}
	}
	for name, v := range o.Factors {
		f, ok := c.Factor(name)
		if !ok {
			return invalid("unknown factor %q", name)
		}
		if v.Kind() != f.Kind {
			return invalid("factor %q must be %s", name, f.Kind)
		}
		switch f.Kind {
		case scoring.FactorNumeric:
			n, _ := v.Number()
			ceiling := f.MaxValue()
			if n < 0 || n > ceiling {
				return invalid("factor %q value %g outside [0,%g]", name, n, ceiling)
			}
		case scoring.FactorCategorical:
			if tag, _ := v.Tag(); strings.TrimSpace(tag) == "" {
				return invalid("factor %q has an empty tag", name)
			}
		}
	}
	return nil
}
