package scoring

// Profile is the mutable aggregate built up during one assessment.
type Profile struct {
	Traits  Traits
	Factors Factors
	Skills  []string
}

// NewProfile returns an empty profile with every trait at zero.
func NewProfile() Profile {
	return Profile{
		Traits:  NewTraits(),
		Factors: make(Factors),
	}
}

// Evaluation holds the values derived from a profile at finalization.
type Evaluation struct {
	CourseMatches       map[string]int
	DiscountEligibility int
	BestMatch           string
	BestMatchScore      int
}

// Evaluate scores p against every course and derives the discount and the
// best match. It is pure; calling it twice on the same inputs yields the
// same Evaluation.
func Evaluate(p Profile, courses []Course) Evaluation {
	matches := make(map[string]int, len(courses))
	for _, c := range courses {
		matches[c.ID] = CourseMatch(p.Traits, p.Factors, p.Skills, c)
	}
	best, bestScore, _ := SelectBestMatch(matches)
	return Evaluation{
		CourseMatches:       matches,
		DiscountEligibility: DiscountEligibility(p.Traits, p.Factors),
		BestMatch:           best,
		BestMatchScore:      bestScore,
	}
}
