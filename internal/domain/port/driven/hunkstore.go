package driven

import (
	"context"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
)

// HunkStore defines the driven port for review blame persistence.
// There is at most one row per review key.
type HunkStore interface {
	// UpsertReviewBlame inserts the review, or replaces only its hunk vector
	// when the key already exists. The review author is never rewritten.
	UpsertReviewBlame(ctx context.Context, review model.ReviewBlame) error

	// GetReviewBlame returns ErrNotFound when no row exists for key.
	GetReviewBlame(ctx context.Context, key model.ReviewKey) (*model.ReviewBlame, error)

	// ListReviewsForRepo returns every stored review of the repository in
	// storage order.
	ListReviewsForRepo(ctx context.Context, repo model.RepoKey) ([]model.ReviewBlame, error)
}
