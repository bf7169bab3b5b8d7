package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursefit/internal/scoring"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Traits, len(scoring.AllTraits()))
	assert.Len(t, c.Courses, 4)
	assert.GreaterOrEqual(t, len(c.Paths), 2)
	assert.NotEmpty(t, c.SuggestedSkills)

	_, ok := c.Course("data-analytics")
	assert.True(t, ok)
	_, ok = c.Path("career-switcher")
	assert.True(t, ok)
}

func TestDefault_FactorValuesDecoded(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, ok := c.Path("career-starter")
	require.True(t, ok)
	require.NotEmpty(t, p.Questions)

	var numeric, categorical int
	for _, q := range p.Questions {
		for _, o := range q.Options {
			for _, v := range o.Factors {
				switch v.Kind() {
				case scoring.FactorNumeric:
					numeric++
				case scoring.FactorCategorical:
					categorical++
				}
			}
		}
	}
	assert.Positive(t, numeric)
	assert.Positive(t, categorical)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Courses, 4)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Only Course", c.CourseTitle("only"))
	assert.Equal(t, "unknown", c.CourseTitle("unknown"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("courses: []\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestMaxTraitScore(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, 4, c.MaxTraitScore("p", scoring.TraitAnalytical))
	assert.Equal(t, 2, c.MaxTraitScore("p", scoring.TraitCreative))
	assert.Equal(t, 0, c.MaxTraitScore("p", scoring.TraitLeadership))
	assert.Equal(t, 0, c.MaxTraitScore("missing", scoring.TraitAnalytical))
}

func TestTraitLabel(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, "Number Cruncher", c.TraitLabel(scoring.TraitAnalytical))
	assert.Equal(t, "Creative", c.TraitLabel(scoring.TraitCreative))
}

func TestFactorMaxValue(t *testing.T) {
	assert.Equal(t, 3.0, Factor{ID: scoring.FactorYearsExperience}.MaxValue())
	assert.Equal(t, 2.0, Factor{ID: scoring.FactorYearsExperience, Ceiling: 2}.MaxValue())
	assert.Equal(t, scoring.FactorCeiling, Factor{ID: "industry"}.MaxValue())
}

const minimalCatalog = `
traits:
  - id: analytical
    label: Number Cruncher
factors:
  - id: education
    kind: numeric
    ceiling: 4
  - id: goal
    kind: categorical
courses:
  - id: only
    title: Only Course
    traitWeights: {analytical: 1.0}
    factorWeights: {education: 0.5}
    relevantSkills: [SQL]
paths:
  - id: p
    title: Path
    questions:
      - id: q1
        prompt: First?
        options:
          - label: A
            traits: {analytical: 2}
            factors: {education: 3, goal: growth}
          - label: B
            traits: {creative: 1}
      - id: q2
        prompt: Second?
        options:
          - label: A
            traits: {analytical: 1}
`
