package assessment

import (
	"cmp"
	"slices"
	"time"

	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/scoring"
)

// Result is a finalized profile together with its derived scores.
type Result struct {
	SessionID   string    `json:"sessionId,omitempty"`
	PathID      string    `json:"path,omitempty"`
	Choices     []int     `json:"choices,omitempty"`
	CompletedAt time.Time `json:"completedAt"`

	Traits              scoring.Traits  `json:"traits"`
	Factors             scoring.Factors `json:"factors"`
	Skills              []string        `json:"skills"`
	CourseMatches       map[string]int  `json:"courseMatches"`
	DiscountEligibility int             `json:"discountEligibility"`
	BestMatch           string          `json:"bestMatch"`
	BestMatchScore      int             `json:"bestMatchScore"`
}

// Finalize scores a profile against every course in the catalog.
func Finalize(p scoring.Profile, cat *catalog.Catalog) *Result {
	ev := scoring.Evaluate(p, cat.Courses)
	return &Result{
		Traits:              p.Traits.Clone(),
		Factors:             p.Factors.Clone(),
		Skills:              append([]string(nil), p.Skills...),
		CourseMatches:       ev.CourseMatches,
		DiscountEligibility: ev.DiscountEligibility,
		BestMatch:           ev.BestMatch,
		BestMatchScore:      ev.BestMatchScore,
	}
}

// Document returns the persisted view of r.
func (r *Result) Document() Document {
	traits := make(map[string]int, len(r.Traits))
	for id, v := range r.Traits {
		traits[string(id)] = v
	}
	matches := make(map[string]int, len(r.CourseMatches))
	for id, v := range r.CourseMatches {
		matches[id] = v
	}
	skills := make([]string, len(r.Skills))
	copy(skills, r.Skills)

	return Document{
		BestMatch:           r.BestMatch,
		BestMatchScore:      r.BestMatchScore,
		CourseMatches:       matches,
		DiscountEligibility: r.DiscountEligibility,
		Traits:              traits,
		Skills:              skills,
	}
}

// RankedMatch is a course and its match percentage.
type RankedMatch struct {
	CourseID string
	Score    int
}

// Ranked returns the course matches ordered by descending score, ties by
// ascending course ID. The first entry is always the best match.
func (r *Result) Ranked() []RankedMatch {
	return rankMatches(r.CourseMatches)
}

// Ranked orders the stored course matches like Result.Ranked.
func (d Document) Ranked() []RankedMatch {
	return rankMatches(d.CourseMatches)
}

func rankMatches(matches map[string]int) []RankedMatch {
	out := make([]RankedMatch, 0, len(matches))
	for id, s := range matches {
		out = append(out, RankedMatch{CourseID: id, Score: s})
	}
	slices.SortFunc(out, func(a, b RankedMatch) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.CourseID, b.CourseID)
	})
	return out
}
