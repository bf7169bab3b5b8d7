package assessment

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DocumentKey is the key-value slot the finalized document is stored under.
const DocumentKey = "assessmentResults"

// ErrInvalidDocument is returned by ParseDocument for malformed or
// out-of-range documents.
var ErrInvalidDocument = errors.New("invalid assessment document")

//go:embed document.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "schema://assessment-results.json"

var (
	documentSchemaOnce sync.Once
	documentSchema     *jsonschema.Schema
	documentSchemaErr  error
)

// Document is the persisted shape read by the enrollment flow.
type Document struct {
	BestMatch           string         `json:"bestMatch"`
	BestMatchScore      int            `json:"bestMatchScore"`
	CourseMatches       map[string]int `json:"courseMatches"`
	DiscountEligibility int            `json:"discountEligibility"`
	Traits              map[string]int `json:"traits"`
	Skills              []string       `json:"skills"`
}

// Marshal encodes d as JSON. Nil maps and slices are written as empty
// objects and arrays.
func (d Document) Marshal() ([]byte, error) {
	if d.CourseMatches == nil {
		d.CourseMatches = map[string]int{}
	}
	if d.Traits == nil {
		d.Traits = map[string]int{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

// ParseDocument decodes a stored document and validates it against the
// embedded JSON schema.
func ParseDocument(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	schema, err := compiledDocumentSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func compiledDocumentSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(documentSchemaJSON, &def); err != nil {
			documentSchemaErr = fmt.Errorf("parse document schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			documentSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		documentSchema, documentSchemaErr = c.Compile(documentSchemaURL)
		if documentSchemaErr != nil {
			documentSchemaErr = fmt.Errorf("compile document schema: %w", documentSchemaErr)
		}
	})
	return documentSchema, documentSchemaErr
}
