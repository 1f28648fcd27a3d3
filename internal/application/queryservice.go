package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// ReadPolicy decides what a read does when its store lookup fails.
type ReadPolicy int

const (
	// PolicyBestEffort logs the failure and returns an empty result.
	PolicyBestEffort ReadPolicy = iota
	// PolicyStrict propagates the failure to the caller.
	PolicyStrict
)

// String returns the configuration spelling of the policy.
func (p ReadPolicy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	default:
		return "best_effort"
	}
}

// ParseReadPolicy accepts "strict" or "best_effort".
func ParseReadPolicy(s string) (ReadPolicy, error) {
	switch s {
	case "strict":
		return PolicyStrict, nil
	case "best_effort", "best-effort":
		return PolicyBestEffort, nil
	default:
		return PolicyBestEffort, fmt.Errorf("unknown read policy %q: expected strict or best_effort", s)
	}
}

// ReviewHunks is one review's hunk vector filtered to an alias set.
type ReviewHunks struct {
	ReviewID string
	Hunks    []model.HunkRecord
}

// QueryService derives author-filtered views over the HunkStore. Alias sets
// are matched exactly; callers expand aliases with IdentityService first.
//
// FilterHunksByAuthors and ReviewsByAuthors are always strict. Files touched
// is a summary read and follows the configured files policy, best-effort by
// default.
type QueryService struct {
	hunks       driven.HunkStore
	timeout     time.Duration
	filesPolicy ReadPolicy
	logger      *slog.Logger
}

// QueryOption configures a QueryService.
type QueryOption func(*QueryService)

// WithFilesPolicy sets the read policy of FilesTouchedByAuthors.
func WithFilesPolicy(p ReadPolicy) QueryOption {
	return func(s *QueryService) { s.filesPolicy = p }
}

// NewQueryService creates a QueryService. timeout bounds each store call.
func NewQueryService(hunks driven.HunkStore, timeout time.Duration, logger *slog.Logger, opts ...QueryOption) *QueryService {
	s := &QueryService{
		hunks:       hunks,
		timeout:     timeout,
		filesPolicy: PolicyBestEffort,
		logger:      loggerOrDefault(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FilterHunksByAuthors returns the review's hunks whose author is in authors,
// in stored order. A review with no matching hunk yields an empty slice; a
// review that does not exist yields driven.ErrNotFound.
func (s *QueryService) FilterHunksByAuthors(ctx context.Context, key model.ReviewKey, authors model.AliasSet) ([]model.HunkRecord, error) {
	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	review, err := s.hunks.GetReviewBlame(callCtx, key)
	if err != nil {
		return nil, fmt.Errorf("filter hunks for %s: %w", key, err)
	}

	return filterHunks(review.Hunks, authors), nil
}

// FilesTouchedByAuthors returns the distinct file paths, sorted, of the hunks
// FilterHunksByAuthors would return. Under PolicyBestEffort a failed lookup,
// including a missing review, is logged and yields an empty slice with a nil
// error.
func (s *QueryService) FilesTouchedByAuthors(ctx context.Context, key model.ReviewKey, authors model.AliasSet) ([]string, error) {
	hunks, err := s.FilterHunksByAuthors(ctx, key, authors)
	if err != nil {
		if s.filesPolicy == PolicyStrict {
			return nil, err
		}
		s.logger.Warn("files touched lookup failed, returning empty set",
			"review", key.String(),
			"error", err,
		)
		return []string{}, nil
	}

	seen := make(map[string]struct{}, len(hunks))
	files := make([]string, 0, len(hunks))
	for _, h := range hunks {
		if _, ok := seen[h.Filepath]; ok {
			continue
		}
		seen[h.Filepath] = struct{}{}
		files = append(files, h.Filepath)
	}
	sort.Strings(files)

	return files, nil
}

// ReviewsByAuthors returns one entry per stored review of repo, each with its
// hunks filtered to authors. Reviews with no matching hunk are still listed.
// Order follows the store and is not guaranteed stable.
func (s *QueryService) ReviewsByAuthors(ctx context.Context, repo model.RepoKey, authors model.AliasSet) ([]ReviewHunks, error) {
	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	reviews, err := s.hunks.ListReviewsForRepo(callCtx, repo)
	if err != nil {
		return nil, fmt.Errorf("reviews by authors for %s: %w", repo, err)
	}

	out := make([]ReviewHunks, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewHunks{
			ReviewID: r.Key.ReviewID,
			Hunks:    filterHunks(r.Hunks, authors),
		})
	}

	return out, nil
}

// filterHunks keeps hunks whose author is in authors. Never returns nil.
func filterHunks(hunks []model.HunkRecord, authors model.AliasSet) []model.HunkRecord {
	out := make([]model.HunkRecord, 0, len(hunks))
	for _, h := range hunks {
		if authors.Contains(h.Author) {
			out = append(out, h)
		}
	}
	return out
}
