package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/logger"
)

// DefaultHistoryKeep is how many results the recorder keeps in history.
const DefaultHistoryKeep = 50

// Recorder hands finalized results to the key-value slot read by the
// enrollment flow and to the local history.
type Recorder struct {
	kv      KV
	history ResultRepo
	keep    int
	log     *logger.Logger
}

// NewRecorder builds a recorder. history may be nil. keep <= 0 disables
// pruning.
func NewRecorder(kv KV, history ResultRepo, keep int, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		kv:      kv,
		history: history,
		keep:    keep,
		log:     log.With("component", "recorder"),
	}
}

// Record persists res. Both destinations are attempted; failures are
// logged and returned joined.
func (r *Recorder) Record(ctx context.Context, res *assessment.Result) error {
	log := r.log.With("session_id", res.SessionID, "path", res.PathID)

	var errs []error
	if err := r.putDocument(ctx, res.Document()); err != nil {
		log.Error("store assessment document", "error", err)
		errs = append(errs, err)
	}

	if r.history != nil {
		rec, err := r.history.Save(ctx, res)
		if err != nil {
			log.Error("save assessment history", "error", err)
			errs = append(errs, err)
		} else {
			log.Info("assessment recorded",
				"sequence", rec.Sequence,
				"best_match", res.BestMatch,
				"best_match_score", res.BestMatchScore,
				"discount", res.DiscountEligibility,
			)
			if r.keep > 0 {
				if err := r.history.Prune(ctx, r.keep); err != nil {
					log.Warn("prune assessment history", "error", err)
				}
			}
		}
	}

	return errors.Join(errs...)
}

func (r *Recorder) putDocument(ctx context.Context, doc assessment.Document) error {
	b, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, assessment.DocumentKey, b); err != nil {
		return fmt.Errorf("store %s: %w", assessment.DocumentKey, err)
	}
	return nil
}

// Latest returns the document in the key-value slot, or nil if none was
// recorded.
func (r *Recorder) Latest(ctx context.Context) (*assessment.Document, error) {
	b, err := r.kv.Get(ctx, assessment.DocumentKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", assessment.DocumentKey, err)
	}
	if b == nil {
		return nil, nil
	}
	return assessment.ParseDocument(b)
}

// Clear empties the key-value slot. History is kept.
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, assessment.DocumentKey); err != nil {
		return fmt.Errorf("clear %s: %w", assessment.DocumentKey, err)
	}
	return nil
}

// History returns the history repo, or nil when none is configured.
func (r *Recorder) History() ResultRepo {
	return r.history
}
