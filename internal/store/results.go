package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/coursefit/internal/assessment"
)

// ResultRecord is one finalized assessment in history.
type ResultRecord struct {
	ID          int
	Sequence    int64
	SessionID   string
	PathID      string
	CompletedAt time.Time
	Document    assessment.Document
	Answers     assessment.Answers
}

// ResultRepo keeps the history of finalized assessments.
type ResultRepo interface {
	// Save appends a finalized result and assigns it the next sequence.
	Save(ctx context.Context, r *assessment.Result) (*ResultRecord, error)

	// Latest returns the most recently saved result, or nil if none exist.
	Latest(ctx context.Context) (*ResultRecord, error)

	// List returns up to limit results, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]ResultRecord, error)

	// Prune deletes all but the N most recent results.
	Prune(ctx context.Context, keep int) error
}

// resultRepo implements ResultRepo on the assessment_results table.
type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var resultColumns = []string{
	resultID,
	resultSequence,
	resultSessionID,
	resultPath,
	resultCompletedAt,
	resultDocument,
	resultAnswers,
}

func (r *resultRepo) Save(ctx context.Context, res *assessment.Result) (*ResultRecord, error) {
	doc := res.Document()
	docBytes, err := doc.Marshal()
	if err != nil {
		return nil, err
	}
	answers := assessment.Answers{
		Path:    res.PathID,
		Choices: res.Choices,
		Skills:  res.Skills,
	}
	answerBytes, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	completed := res.CompletedAt.UTC()
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(resultsTable).
		Columns(
			resultSequence,
			resultSessionID,
			resultPath,
			resultCompletedAt,
			resultBestMatch,
			resultBestScore,
			resultDiscount,
			resultDocument,
			resultAnswers,
		).
		Values(
			seq,
			res.SessionID,
			res.PathID,
			completed,
			res.BestMatch,
			res.BestMatchScore,
			res.DiscountEligibility,
			docBytes,
			answerBytes,
		).
		Query()

	out, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	return &ResultRecord{
		ID:          int(id),
		Sequence:    seq,
		SessionID:   res.SessionID,
		PathID:      res.PathID,
		CompletedAt: completed,
		Document:    doc,
		Answers:     answers,
	}, nil
}

func (r *resultRepo) Latest(ctx context.Context) (*ResultRecord, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("query latest result: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *resultRepo) List(ctx context.Context, limit int) ([]ResultRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table(resultsTable)).
		OrderBy(entsql.Desc(resultSequence))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

func (r *resultRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence threshold: the first result past the ones kept.
	query, args := entsql.Dialect(dialect.SQLite).
		Select(resultSequence).
		From(entsql.Table(resultsTable)).
		OrderBy(entsql.Desc(resultSequence)).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep results exist
		}
		return fmt.Errorf("query results for prune: %w", err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(resultsTable).
		Where(entsql.LTE(resultSequence, threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune results: %w", err)
	}
	return nil
}

func scanResult(rows *sql.Rows) (*ResultRecord, error) {
	var (
		rec         ResultRecord
		docBytes    []byte
		answerBytes []byte
	)
	err := rows.Scan(
		&rec.ID,
		&rec.Sequence,
		&rec.SessionID,
		&rec.PathID,
		&rec.CompletedAt,
		&docBytes,
		&answerBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	if err := json.Unmarshal(docBytes, &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal result document: %w", err)
	}
	if err := json.Unmarshal(answerBytes, &rec.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal result answers: %w", err)
	}
	return &rec, nil
}
