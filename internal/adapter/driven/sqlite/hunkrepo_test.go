package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

var repoA = model.RepoKey{Provider: "github", Owner: "acme", Name: "repoA"}

func makeReview(id, author string, hunks ...model.HunkRecord) model.ReviewBlame {
	return model.ReviewBlame{
		Key:    model.ReviewKey{Repo: repoA, ReviewID: id},
		Author: author,
		Hunks:  hunks,
	}
}

func TestHunkRepo_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	review := makeReview("42", "submitter@x.com",
		model.HunkRecord{Author: "a@x.com", Timestamp: "2026-01-20T10:00:00Z", LineStart: 1, LineEnd: 5, Filepath: "f.go"},
		model.HunkRecord{Author: "b@z.com", LineStart: 10, LineEnd: 12, Filepath: "g.go"},
	)
	require.NoError(t, repo.UpsertReviewBlame(ctx, review))

	got, err := repo.GetReviewBlame(ctx, review.Key)
	require.NoError(t, err)
	assert.Equal(t, review, *got)
}

func TestHunkRepo_GetMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)

	_, err := repo.GetReviewBlame(context.Background(), model.ReviewKey{Repo: repoA, ReviewID: "404"})
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrNotFound)
	assert.Contains(t, err.Error(), "github/acme/repoA#404")
}

func TestHunkRepo_UpsertReplacesHunksOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	first := makeReview("7", "first@x.com",
		model.HunkRecord{Author: "a@x.com", LineStart: 1, LineEnd: 2, Filepath: "old.go"},
	)
	second := makeReview("7", "second@x.com",
		model.HunkRecord{Author: "c@x.com", LineStart: 3, LineEnd: 9, Filepath: "new.go"},
	)

	require.NoError(t, repo.UpsertReviewBlame(ctx, first))
	require.NoError(t, repo.UpsertReviewBlame(ctx, second))

	got, err := repo.GetReviewBlame(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, "first@x.com", got.Author, "review author is not rewritten on conflict")
	assert.Equal(t, second.Hunks, got.Hunks, "hunks are replaced, not appended")

	var count int
	require.NoError(t, db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM hunks`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestHunkRepo_UpsertIdenticalPayloadTwice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	review := makeReview("1", "s@x.com", model.HunkRecord{Author: "a@x.com", LineStart: 1, LineEnd: 1, Filepath: "a.go"})
	require.NoError(t, repo.UpsertReviewBlame(ctx, review))
	require.NoError(t, repo.UpsertReviewBlame(ctx, review))

	reviews, err := repo.ListReviewsForRepo(ctx, repoA)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, review.Hunks, reviews[0].Hunks)
}

func TestHunkRepo_NilHunksStoredAsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	review := makeReview("3", "s@x.com")
	require.NoError(t, repo.UpsertReviewBlame(ctx, review))

	got, err := repo.GetReviewBlame(ctx, review.Key)
	require.NoError(t, err)
	assert.NotNil(t, got.Hunks)
	assert.Empty(t, got.Hunks)
}

func TestHunkRepo_ListReviewsForRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertReviewBlame(ctx, makeReview("1", "s@x.com")))
	require.NoError(t, repo.UpsertReviewBlame(ctx, makeReview("2", "s@x.com")))

	other := model.ReviewBlame{
		Key:    model.ReviewKey{Repo: model.RepoKey{Provider: "github", Owner: "acme", Name: "repoB"}, ReviewID: "1"},
		Author: "s@x.com",
	}
	require.NoError(t, repo.UpsertReviewBlame(ctx, other))

	reviews, err := repo.ListReviewsForRepo(ctx, repoA)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "1", reviews[0].Key.ReviewID)
	assert.Equal(t, "2", reviews[1].Key.ReviewID)
	assert.Equal(t, repoA, reviews[0].Key.Repo)
}

func TestHunkRepo_ListUnknownRepoIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)

	reviews, err := repo.ListReviewsForRepo(context.Background(), repoA)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestHunkRepo_ExpiredDeadlineIsTimeout(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.GetReviewBlame(ctx, model.ReviewKey{Repo: repoA, ReviewID: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrTimeout)
	assert.NotErrorIs(t, err, driven.ErrNotFound)
}

func TestHunkRepo_QueryValuesAreBound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	hostile := model.ReviewBlame{
		Key:    model.ReviewKey{Repo: model.RepoKey{Provider: "github", Owner: "o'; DROP TABLE hunks; --", Name: "r"}, ReviewID: "1"},
		Author: "x'y",
		Hunks:  []model.HunkRecord{{Author: "it's@x.com", LineStart: 1, LineEnd: 1, Filepath: "a'b.go"}},
	}
	require.NoError(t, repo.UpsertReviewBlame(ctx, hostile))

	got, err := repo.GetReviewBlame(ctx, hostile.Key)
	require.NoError(t, err)
	assert.Equal(t, hostile, *got)
}
