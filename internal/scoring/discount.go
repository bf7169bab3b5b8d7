package scoring

import "math"

// Discount policy constants. The trait/background split and the cap are
// product policy and must stay as they are for compatibility with stored
// results.
const (
	MaxDiscount = 90

	discountTraitPoints = 60.0
	discountTraitMean   = 2.0

	educationCeiling  = 4.0
	experienceCeiling = 3.0
	projectsCeiling   = 3.0

	educationPoints  = 15.0
	experiencePoints = 15.0
	projectsPoints   = 10.0
)

// DiscountEligibility returns the tuition discount percentage a profile
// qualifies for, in [0, MaxDiscount].
//
// Up to 60 points come from the mean trait score (saturating at a mean of
// 2) and up to 40 from education, years of experience and relevant
// projects. Absent or categorical factors count as zero.
func DiscountEligibility(traits Traits, factors Factors) int {
	traitPart := math.Min(traits.Mean()/discountTraitMean, 1) * discountTraitPoints

	background := clamp(factors.numeric(FactorEducation)/educationCeiling, 0, 1)*educationPoints +
		clamp(factors.numeric(FactorYearsExperience)/experienceCeiling, 0, 1)*experiencePoints +
		clamp(factors.numeric(FactorRelevantProjects)/projectsCeiling, 0, 1)*projectsPoints

	total := int(math.Round(traitPart + background))
	if total > MaxDiscount {
		return MaxDiscount
	}
	if total < 0 {
		return 0
	}
	return total
}

// DiscountCeilings returns the ceiling used for each discount factor.
func DiscountCeilings() map[string]float64 {
	return map[string]float64{
		FactorEducation:        educationCeiling,
		FactorYearsExperience:  experienceCeiling,
		FactorRelevantProjects: projectsCeiling,
	}
}
