package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCourse() Course {
	return Course{
		ID:    "data-analytics",
		Title: "Data Analytics",
		TraitWeights: map[TraitID]float64{
			TraitAnalytical: 1.0,
			TraitTechnical:  0.5,
		},
		FactorWeights: map[string]float64{
			FactorEducation: 0.5,
		},
		RelevantSkills: []string{"Python", "SQL", "Statistics"},
	}
}

func TestCourseMatch_AllZero(t *testing.T) {
	got := CourseMatch(NewTraits(), Factors{}, nil, testCourse())
	if got != 0 {
		t.Errorf("CourseMatch = %d, want 0", got)
	}
}

func TestCourseMatch_DominantTraitAtCeiling(t *testing.T) {
	traits := NewTraits()
	traits[TraitAnalytical] = 10

	// num = 1 * 1.0 * 0.5 = 0.5
	// den = 1.0*0.5 + 0.5*0.5 + 0.5*0.25 + 0.25 = 1.125
	got := CourseMatch(traits, Factors{}, nil, testCourse())
	if got != 44 {
		t.Errorf("CourseMatch = %d, want 44", got)
	}
}

func TestCourseMatch_TraitAboveCeilingIsClamped(t *testing.T) {
	at := NewTraits()
	at[TraitAnalytical] = 10
	above := NewTraits()
	above[TraitAnalytical] = 37

	assert.Equal(t,
		CourseMatch(at, Factors{}, nil, testCourse()),
		CourseMatch(above, Factors{}, nil, testCourse()))
}

func TestCourseMatch_SkillsOnly(t *testing.T) {
	skills := []string{"Python", "SQL", "Statistics"}

	// num = 0.25, den = 1.125 (trait and factor weights still count)
	got := CourseMatch(NewTraits(), Factors{}, skills, testCourse())
	if got != 22 {
		t.Errorf("CourseMatch = %d, want 22", got)
	}
}

func TestCourseMatch_PerfectProfile(t *testing.T) {
	traits := NewTraits()
	traits[TraitAnalytical] = 10
	traits[TraitTechnical] = 12
	factors := Factors{FactorEducation: Numeric(4)}

	got := CourseMatch(traits, factors, []string{"python"}, testCourse())
	if got != 100 {
		t.Errorf("CourseMatch = %d, want 100", got)
	}
}

func TestCourseMatch_CategoricalFactorCountsAsZero(t *testing.T) {
	numeric := Factors{FactorEducation: Numeric(0)}
	categorical := Factors{FactorEducation: Categorical("bachelor")}

	assert.Equal(t,
		CourseMatch(NewTraits(), numeric, nil, testCourse()),
		CourseMatch(NewTraits(), categorical, nil, testCourse()))
}

func TestCourseMatch_FactorNormalization(t *testing.T) {
	// education 2 of 4 => 0.5 * 0.5 * 0.25 = 0.0625; 0.0625 / 1.125 = 5.55%
	got := CourseMatch(NewTraits(), Factors{FactorEducation: Numeric(2)}, nil, testCourse())
	if got != 6 {
		t.Errorf("CourseMatch = %d, want 6", got)
	}
}

func TestCourseMatch_Deterministic(t *testing.T) {
	traits := NewTraits()
	traits[TraitAnalytical] = 3
	traits[TraitTechnical] = 7
	factors := Factors{FactorEducation: Numeric(3)}
	skills := []string{"sql", "painting", "Data"}

	first := CourseMatch(traits, factors, skills, testCourse())
	for range 50 {
		if got := CourseMatch(traits, factors, skills, testCourse()); got != first {
			t.Fatalf("CourseMatch not deterministic: %d then %d", first, got)
		}
	}
}

func TestCourseMatch_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pool := []string{"python", "sql", "design", "sales", "go", "excel", "figma", "a", "statistics"}

	for range 500 {
		traits := NewTraits()
		for _, id := range AllTraits() {
			traits[id] = rng.IntN(101)
		}
		factors := Factors{FactorEducation: Numeric(float64(rng.IntN(10)))}
		var skills []string
		for range rng.IntN(MaxSkills + 1) {
			skills = append(skills, pool[rng.IntN(len(pool))])
		}

		got := CourseMatch(traits, factors, skills, testCourse())
		if got < 0 || got > 100 {
			t.Fatalf("CourseMatch = %d, out of [0,100]", got)
		}
	}
}

func TestSkillMatchRatio(t *testing.T) {
	relevant := []string{"Machine Learning", "Python", "SQL"}

	tests := []struct {
		name     string
		selected []string
		want     float64
	}{
		{"none selected", nil, 0},
		{"exact match", []string{"Python"}, 1},
		{"case insensitive", []string{"python", "sql"}, 1},
		{"selected inside relevant", []string{"learning"}, 1},
		{"relevant inside selected", []string{"advanced sql tuning"}, 1},
		{"partial", []string{"python", "watercolor"}, 0.5},
		{"no match", []string{"watercolor", "pottery"}, 0},
		{"blank skill never matches", []string{"  "}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SkillMatchRatio(tt.selected, relevant), 1e-9)
		})
	}
}
