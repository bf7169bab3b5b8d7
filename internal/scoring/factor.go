package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Well-known background factor names read by the discount formula.
const (
	FactorEducation        = "education"
	FactorYearsExperience  = "yearsExperience"
	FactorRelevantProjects = "relevantProjects"
)

// FactorKind tags the variant held by a FactorValue.
type FactorKind int

const (
	FactorNumeric     FactorKind = iota // value is a number
	FactorCategorical                   // value is a free-form tag
)

func (k FactorKind) String() string {
	switch k {
	case FactorNumeric:
		return "numeric"
	case FactorCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("FactorKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k FactorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseFactorKind parses "numeric" or "categorical".
func ParseFactorKind(s string) (FactorKind, error) {
	switch s {
	case "numeric":
		return FactorNumeric, nil
	case "categorical":
		return FactorCategorical, nil
	default:
		return 0, fmt.Errorf("unknown factor kind %q", s)
	}
}

// FactorValue is a background factor value: either a number or a
// categorical tag. The zero value is Numeric(0).
type FactorValue struct {
	kind FactorKind
	num  float64
	tag  string
}

// Numeric returns a numeric factor value.
func Numeric(v float64) FactorValue {
	return FactorValue{kind: FactorNumeric, num: v}
}

// Categorical returns a categorical factor value.
func Categorical(tag string) FactorValue {
	return FactorValue{kind: FactorCategorical, tag: tag}
}

// Kind returns which variant v holds.
func (v FactorValue) Kind() FactorKind { return v.kind }

// Number returns the numeric value and true for numeric factors.
func (v FactorValue) Number() (float64, bool) {
	if v.kind != FactorNumeric {
		return 0, false
	}
	return v.num, true
}

// Tag returns the categorical tag and true for categorical factors.
func (v FactorValue) Tag() (string, bool) {
	if v.kind != FactorCategorical {
		return "", false
	}
	return v.tag, true
}

func (v FactorValue) String() string {
	switch v.kind {
	case FactorCategorical:
		return v.tag
	default:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
}

// MarshalJSON encodes numeric factors as JSON numbers and categorical
// factors as JSON strings.
func (v FactorValue) MarshalJSON() ([]byte, error) {
	if v.kind == FactorCategorical {
		return json.Marshal(v.tag)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (v *FactorValue) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*v = Numeric(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("factor value must be a number or a string: %s", b)
	}
	*v = Categorical(s)
	return nil
}

// Factors maps background factor names to their latest value.
type Factors map[string]FactorValue

// Clone returns an independent copy of f.
func (f Factors) Clone() Factors {
	out := make(Factors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// numeric returns the numeric value of the named factor, or 0 when the
// factor is absent or categorical.
func (f Factors) numeric(name string) float64 {
	v, ok := f[name]
	if !ok {
		return 0
	}
	n, _ := v.Number()
	return n
}

// ApplyBackgroundFactors returns a new Factors with every key in updates
// overwriting the current value. Keys not in updates are retained.
func ApplyBackgroundFactors(current Factors, updates Factors) Factors {
	next := current.Clone()
	for k, v := range updates {
		next[k] = v
	}
	return next
}
