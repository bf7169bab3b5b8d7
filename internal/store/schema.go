package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable      = "kv_entries"
	kvKey        = "key"
	kvValue      = "value"
	kvUpdatedAt  = "updated_at"
	resultsTable = "assessment_results"

	resultID          = "id"
	resultSequence    = "sequence"
	resultSessionID   = "session_id"
	resultPath        = "path"
	resultCompletedAt = "completed_at"
	resultBestMatch   = "best_match"
	resultBestScore   = "best_match_score"
	resultDiscount    = "discount_eligibility"
	resultDocument    = "document"
	resultAnswers     = "answers"
)

func kvEntriesTable() *schema.Table {
	t := schema.NewTable(kvTable)
	t.AddPrimary(&schema.Column{Name: kvKey, Type: field.TypeString})
	t.AddColumn(&schema.Column{Name: kvValue, Type: field.TypeBytes})
	t.AddColumn(&schema.Column{Name: kvUpdatedAt, Type: field.TypeTime})
	return t
}

func assessmentResultsTable() *schema.Table {
	t := schema.NewTable(resultsTable)
	t.AddPrimary(&schema.Column{Name: resultID, Type: field.TypeInt, Increment: true})
	t.AddColumn(&schema.Column{Name: resultSequence, Type: field.TypeInt64, Unique: true})
	t.AddColumn(&schema.Column{Name: resultSessionID, Type: field.TypeString, Unique: true})
	t.AddColumn(&schema.Column{Name: resultPath, Type: field.TypeString})
	t.AddColumn(&schema.Column{Name: resultCompletedAt, Type: field.TypeTime})
	t.AddColumn(&schema.Column{Name: resultBestMatch, Type: field.TypeString})
	t.AddColumn(&schema.Column{Name: resultBestScore, Type: field.TypeInt})
	t.AddColumn(&schema.Column{Name: resultDiscount, Type: field.TypeInt})
	t.AddColumn(&schema.Column{Name: resultDocument, Type: field.TypeBytes})
	t.AddColumn(&schema.Column{Name: resultAnswers, Type: field.TypeBytes})
	t.AddIndex("assessmentresult_completed_at", false, []string{resultCompletedAt})
	return t
}

// migrate creates or upgrades the tables in place.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, kvEntriesTable(), assessmentResultsTable())
}
