// Package catalog loads the assessment question paths, the course catalog
// and the suggested skills from YAML.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/coursefit/internal/scoring"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Trait is a trait declaration with its display label.
type Trait struct {
	ID    scoring.TraitID `json:"id"`
	Label string          `json:"label"`
}

// Factor declares a background factor that options may assign.
// Ceiling bounds numeric values; see MaxValue for the zero case.
type Factor struct {
	ID      string             `json:"id"`
	Label   string             `json:"label"`
	Kind    scoring.FactorKind `json:"kind"`
	Ceiling float64            `json:"ceiling,omitempty"`
}

// MaxValue returns the largest value an option may assign to the factor.
func (f Factor) MaxValue() float64 {
	if f.Ceiling > 0 {
		return f.Ceiling
	}
	if limit, ok := scoring.DiscountCeilings()[f.ID]; ok {
		return limit
	}
	return scoring.FactorCeiling
}

// Option is one selectable answer.
type Option struct {
	Label   string                  `json:"label"`
	Traits  map[scoring.TraitID]int `json:"traits,omitempty"`
	Factors scoring.Factors         `json:"factors,omitempty"`
}

// Question is a prompt with a fixed list of options.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Path is the question set selected at the start of an assessment.
type Path struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Catalog is the immutable data an assessment runs against.
type Catalog struct {
	Traits          []Trait          `json:"traits"`
	Factors         []Factor         `json:"factors"`
	Courses         []scoring.Course `json:"courses"`
	Paths           []Path           `json:"paths"`
	SuggestedSkills []string         `json:"suggestedSkills"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. An empty path loads the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	c, err := f.build()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Course returns the course with the given ID.
func (c *Catalog) Course(id string) (scoring.Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return scoring.Course{}, false
}

// Path returns the path with the given ID.
func (c *Catalog) Path(id string) (Path, bool) {
	for _, p := range c.Paths {
		if p.ID == id {
			return p, true
		}
	}
	return Path{}, false
}

// Factor returns the factor declaration with the given ID.
func (c *Catalog) Factor(id string) (Factor, bool) {
	for _, f := range c.Factors {
		if f.ID == id {
			return f, true
		}
	}
	return Factor{}, false
}

// TraitLabel returns the declared label for a trait, falling back to the
// built-in display name.
func (c *Catalog) TraitLabel(id scoring.TraitID) string {
	for _, t := range c.Traits {
		if t.ID == id && t.Label != "" {
			return t.Label
		}
	}
	return scoring.TraitDisplayName(id)
}

// CourseTitle returns the title of a course, or its ID when unknown.
func (c *Catalog) CourseTitle(id string) string {
	if course, ok := c.Course(id); ok && course.Title != "" {
		return course.Title
	}
	return id
}

// MaxTraitScore returns the upper bound of a trait accumulator on a path:
// two points for every question with at least one option awarding the trait.
func (c *Catalog) MaxTraitScore(pathID string, trait scoring.TraitID) int {
	p, ok := c.Path(pathID)
	if !ok {
		return 0
	}
	bound := 0
	for _, q := range p.Questions {
		for _, o := range q.Options {
			if o.Traits[trait] > 0 {
				bound += 2
				break
			}
		}
	}
	return bound
}

// fileCatalog mirrors the YAML layout. Factor values are decoded loosely
// and converted to scoring.FactorValue in build.
type fileCatalog struct {
	Traits          []Trait      `yaml:"traits"`
	Factors         []fileFactor `yaml:"factors"`
	Courses         []fileCourse `yaml:"courses"`
	Paths           []filePath   `yaml:"paths"`
	SuggestedSkills []string     `yaml:"suggestedSkills"`
}

type fileFactor struct {
	ID      string  `yaml:"id"`
	Label   string  `yaml:"label"`
	Kind    string  `yaml:"kind"`
	Ceiling float64 `yaml:"ceiling"`
}

type fileCourse struct {
	ID             string                      `yaml:"id"`
	Title          string                      `yaml:"title"`
	Description    string                      `yaml:"description"`
	TraitWeights   map[scoring.TraitID]float64 `yaml:"traitWeights"`
	FactorWeights  map[string]float64          `yaml:"factorWeights"`
	RelevantSkills []string                    `yaml:"relevantSkills"`
}

type filePath struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Questions   []fileQuestion `yaml:"questions"`
}

type fileQuestion struct {
	ID      string       `yaml:"id"`
	Prompt  string       `yaml:"prompt"`
	Options []fileOption `yaml:"options"`
}

type fileOption struct {
	Label   string                  `yaml:"label"`
	Traits  map[scoring.TraitID]int `yaml:"traits"`
	Factors map[string]any          `yaml:"factors"`
}

func (f *fileCatalog) build() (*Catalog, error) {
	c := &Catalog{
		Traits:          f.Traits,
		SuggestedSkills: f.SuggestedSkills,
	}

	for _, ff := range f.Factors {
		kind, err := scoring.ParseFactorKind(ff.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: factor %q: %v", ErrInvalidCatalog, ff.ID, err)
		}
		c.Factors = append(c.Factors, Factor{
			ID:      ff.ID,
			Label:   ff.Label,
			Kind:    kind,
			Ceiling: ff.Ceiling,
		})
	}

	for _, fc := range f.Courses {
		c.Courses = append(c.Courses, scoring.Course{
			ID:             fc.ID,
			Title:          fc.Title,
			Description:    fc.Description,
			TraitWeights:   fc.TraitWeights,
			FactorWeights:  fc.FactorWeights,
			RelevantSkills: fc.RelevantSkills,
		})
	}

	for _, fp := range f.Paths {
		p := Path{ID: fp.ID, Title: fp.Title, Description: fp.Description}
		for _, fq := range fp.Questions {
			q := Question{ID: fq.ID, Prompt: fq.Prompt}
			for i, fo := range fq.Options {
				factors, err := convertFactors(fo.Factors)
				if err != nil {
					return nil, fmt.Errorf("%w: path %q question %q option %d: %v",
						ErrInvalidCatalog, fp.ID, fq.ID, i, err)
				}
				q.Options = append(q.Options, Option{
					Label:   fo.Label,
					Traits:  fo.Traits,
					Factors: factors,
				})
			}
			p.Questions = append(p.Questions, q)
		}
		c.Paths = append(c.Paths, p)
	}

	return c, nil
}

func convertFactors(raw map[string]any) (scoring.Factors, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(scoring.Factors, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case int:
			out[k] = scoring.Numeric(float64(val))
		case float64:
			out[k] = scoring.Numeric(val)
		case string:
			out[k] = scoring.Categorical(val)
		default:
			return nil, fmt.Errorf("factor %q: unsupported value %v", k, v)
		}
	}
	return out, nil
}
