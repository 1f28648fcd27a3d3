package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// IngestService persists blame vectors delivered by the external hunk
// producer. Each review is upserted on its own; a failure is logged and the
// batch moves on.
type IngestService struct {
	hunks   driven.HunkStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewIngestService creates an IngestService. timeout bounds each store call;
// a nil logger falls back to slog.Default().
func NewIngestService(hunks driven.HunkStore, timeout time.Duration, logger *slog.Logger) *IngestService {
	return &IngestService{
		hunks:   hunks,
		timeout: timeout,
		logger:  loggerOrDefault(logger),
	}
}

// SaveReviewBlame decodes a producer payload and upserts every review in it.
// The returned error is non-nil only when the envelope itself is malformed;
// per-review problems are reported in the BatchResult.
func (s *IngestService) SaveReviewBlame(ctx context.Context, payload []byte) (BatchResult, error) {
	repo, rawReviews, err := decodeBlamePayload(payload)
	if err != nil {
		s.logger.Error("rejecting blame payload", "error", err)
		return BatchResult{}, err
	}

	s.logger.Info("saving review blame", "repo", repo.String(), "reviews", len(rawReviews))

	var result BatchResult
	for i, raw := range rawReviews {
		review, err := decodeReview(repo, raw)
		if err != nil {
			key := fmt.Sprintf("%s[%d]", repo, i)
			err = fmt.Errorf("decode review %s: %w: %w", key, driven.ErrMalformedPayload, err)
			s.logger.Error("skipping review", "review", key, "error", err)
			result.fail(key, err)
			continue
		}
		s.saveOne(ctx, review, &result)
	}

	return result, nil
}

// SaveBatch upserts already-decoded reviews. Every review must belong to
// batch.Repo; one that does not is skipped as malformed.
func (s *IngestService) SaveBatch(ctx context.Context, batch model.BlameBatch) (BatchResult, error) {
	if err := batch.Repo.Validate(); err != nil {
		return BatchResult{}, fmt.Errorf("save batch: %w: %w", driven.ErrMalformedPayload, err)
	}

	var result BatchResult
	for _, review := range batch.Reviews {
		if review.Key.Repo != batch.Repo {
			err := fmt.Errorf("review %s outside batch repository %s: %w", review.Key, batch.Repo, driven.ErrMalformedPayload)
			s.logger.Error("skipping review", "review", review.Key.String(), "error", err)
			result.fail(review.Key.String(), err)
			continue
		}
		s.saveOne(ctx, review, &result)
	}

	return result, nil
}

func (s *IngestService) saveOne(ctx context.Context, review model.ReviewBlame, result *BatchResult) {
	key := review.Key.String()

	if err := review.Validate(); err != nil {
		err = fmt.Errorf("validate review %s: %w: %w", key, driven.ErrMalformedPayload, err)
		s.logger.Error("skipping review", "review", key, "error", err)
		result.fail(key, err)
		return
	}

	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	if err := s.hunks.UpsertReviewBlame(callCtx, review); err != nil {
		s.logger.Error("failed to save review blame", "review", key, "error", err)
		result.fail(key, err)
		return
	}

	result.Saved = append(result.Saved, key)
}
