package scoring

// TraitID identifies one of the fixed personality/aptitude dimensions.
type TraitID string

const (
	TraitAnalytical    TraitID = "analytical"
	TraitCreative      TraitID = "creative"
	TraitTechnical     TraitID = "technical"
	TraitLeadership    TraitID = "leadership"
	TraitCommunication TraitID = "communication"
	TraitStrategic     TraitID = "strategic"
	TraitAdaptability  TraitID = "adaptability"
)

// AllTraits returns every trait in display order.
func AllTraits() []TraitID {
	return []TraitID{
		TraitAnalytical,
		TraitCreative,
		TraitTechnical,
		TraitLeadership,
		TraitCommunication,
		TraitStrategic,
		TraitAdaptability,
	}
}

// IsKnownTrait reports whether id is one of AllTraits.
func IsKnownTrait(id TraitID) bool {
	for _, t := range AllTraits() {
		if t == id {
			return true
		}
	}
	return false
}

// TraitDisplayName returns a human-readable name for a trait.
func TraitDisplayName(id TraitID) string {
	switch id {
	case TraitAnalytical:
		return "Analytical"
	case TraitCreative:
		return "Creative"
	case TraitTechnical:
		return "Technical"
	case TraitLeadership:
		return "Leadership"
	case TraitCommunication:
		return "Communication"
	case TraitStrategic:
		return "Strategic"
	case TraitAdaptability:
		return "Adaptability"
	default:
		return string(id)
	}
}

// Traits maps each trait to its accumulated score.
// Scores start at zero and only ever grow during a session.
type Traits map[TraitID]int

// NewTraits returns a Traits map with every known trait set to zero.
func NewTraits() Traits {
	t := make(Traits, len(AllTraits()))
	for _, id := range AllTraits() {
		t[id] = 0
	}
	return t
}

// Clone returns an independent copy of t.
func (t Traits) Clone() Traits {
	out := make(Traits, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Mean returns the arithmetic mean over all known traits. Traits missing
// from the map count as zero.
func (t Traits) Mean() float64 {
	all := AllTraits()
	sum := 0
	for _, id := range all {
		sum += t[id]
	}
	return float64(sum) / float64(len(all))
}

// ApplyAnswer returns a new Traits with each delta added to its trait.
// Traits not mentioned in deltas keep their current score. Negative deltas
// are ignored so accumulators never decrease.
func ApplyAnswer(current Traits, deltas map[TraitID]int) Traits {
	next := current.Clone()
	for id, d := range deltas {
		if d <= 0 {
			continue
		}
		next[id] += d
	}
	return next
}
