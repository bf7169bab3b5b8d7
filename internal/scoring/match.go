package scoring

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

const (
	// TraitCeiling is the accumulated score at which a trait counts as a
	// full match.
	TraitCeiling = 10.0

	// FactorCeiling normalizes numeric background factors for course matching.
	FactorCeiling = 4.0

	traitShare  = 0.5
	factorShare = 0.25
	skillsShare = 0.25
)

// CourseMatch returns how well a profile fits course as an integer
// percentage in [0, 100].
//
// Traits carry half the weight, background factors a quarter, both scaled
// by the course's importance tables. The remaining quarter is the share of
// selected skills relevant to the course and is not importance-scaled. A
// trait or factor the user never touched counts as the weakest possible
// match.
func CourseMatch(traits Traits, factors Factors, skills []string, course Course) int {
	var num, den float64

	// Sorted iteration keeps float summation, and so rounding, stable.
	for _, id := range sortedKeys(course.TraitWeights) {
		importance := course.TraitWeights[id]
		norm := clamp(float64(traits[id])/TraitCeiling, 0, 1)
		num += norm * importance * traitShare
		den += importance * traitShare
	}

	for _, name := range sortedKeys(course.FactorWeights) {
		importance := course.FactorWeights[name]
		norm := clamp(factors.numeric(name)/FactorCeiling, 0, 1)
		num += norm * importance * factorShare
		den += importance * factorShare
	}

	num += SkillMatchRatio(skills, course.RelevantSkills) * skillsShare
	den += skillsShare

	return int(math.Round(clamp(num/den, 0, 1) * 100))
}

// SkillMatchRatio returns the fraction of selected skills that match any
// relevant skill. A selected skill matches when either string contains the
// other, ignoring case. Returns 0 when nothing is selected.
func SkillMatchRatio(selected, relevant []string) float64 {
	if len(selected) == 0 {
		return 0
	}
	matched := 0
	for _, s := range selected {
		if skillMatchesAny(s, relevant) {
			matched++
		}
	}
	return float64(matched) / float64(len(selected))
}

func skillMatchesAny(skill string, relevant []string) bool {
	s := strings.ToLower(strings.TrimSpace(skill))
	if s == "" {
		return false
	}
	for _, r := range relevant {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if strings.Contains(r, s) || strings.Contains(s, r) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
