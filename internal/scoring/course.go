package scoring

// Course is a static catalog entry with importance weights over traits and
// background factors. Courses are defined once at start-up and never mutated.
type Course struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	TraitWeights   map[TraitID]float64 `json:"traitWeights"`
	FactorWeights  map[string]float64  `json:"factorWeights,omitempty"`
	RelevantSkills []string            `json:"relevantSkills"`
}
