package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HunkStore = (*HunkRepo)(nil)

// HunkRepo is the SQLite implementation of the HunkStore port interface.
// The hunk vector is stored as a JSON document in a single column.
type HunkRepo struct {
	db *DB
}

// NewHunkRepo creates a new HunkRepo backed by the given DB.
func NewHunkRepo(db *DB) *HunkRepo {
	return &HunkRepo{db: db}
}

// UpsertReviewBlame inserts a review or replaces its hunk vector. On conflict
// the key columns and the review author keep their first-written values.
func (r *HunkRepo) UpsertReviewBlame(ctx context.Context, review model.ReviewBlame) error {
	const query = `
		INSERT INTO hunks (repo_provider, repo_owner, repo_name, review_id, author, hunks)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(repo_provider, repo_owner, repo_name, review_id) DO UPDATE SET
			hunks = excluded.hunks
	`

	doc, err := model.MarshalBlame(review.Hunks)
	if err != nil {
		return fmt.Errorf("encode hunks for %s: %w", review.Key, err)
	}

	k := review.Key
	_, err = r.db.Writer.ExecContext(ctx, query,
		k.Repo.Provider, k.Repo.Owner, k.Repo.Name, k.ReviewID, review.Author, string(doc),
	)
	if err != nil {
		return storeErr(ctx, "upsert review blame "+k.String(), err)
	}

	return nil
}

// GetReviewBlame retrieves one review by key. Returns driven.ErrNotFound if
// the review was never ingested.
func (r *HunkRepo) GetReviewBlame(ctx context.Context, key model.ReviewKey) (*model.ReviewBlame, error) {
	const query = `
		SELECT review_id, author, hunks
		FROM hunks
		WHERE repo_provider = ? AND repo_owner = ? AND repo_name = ? AND review_id = ?
	`

	row := r.db.Reader.QueryRowContext(ctx, query,
		key.Repo.Provider, key.Repo.Owner, key.Repo.Name, key.ReviewID,
	)
	review, err := scanReviewBlame(row, key.Repo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review blame %s: %w", key, driven.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(ctx, "get review blame "+key.String(), err)
	}

	return review, nil
}

// ListReviewsForRepo returns all reviews of the repository in insertion order.
func (r *HunkRepo) ListReviewsForRepo(ctx context.Context, repo model.RepoKey) ([]model.ReviewBlame, error) {
	const query = `
		SELECT review_id, author, hunks
		FROM hunks
		WHERE repo_provider = ? AND repo_owner = ? AND repo_name = ?
		ORDER BY id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repo.Provider, repo.Owner, repo.Name)
	if err != nil {
		return nil, storeErr(ctx, "list reviews for "+repo.String(), err)
	}
	defer rows.Close()

	var reviews []model.ReviewBlame
	for rows.Next() {
		review, err := scanReviewBlame(rows, repo)
		if err != nil {
			return nil, fmt.Errorf("scan review blame: %w", err)
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(ctx, "iterate reviews for "+repo.String(), err)
	}

	return reviews, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReviewBlame(s scanner, repo model.RepoKey) (*model.ReviewBlame, error) {
	var review model.ReviewBlame
	var doc string

	if err := s.Scan(&review.Key.ReviewID, &review.Author, &doc); err != nil {
		return nil, err
	}
	review.Key.Repo = repo

	hunks, err := model.UnmarshalBlame([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decode hunks for %s: %w", review.Key, err)
	}
	review.Hunks = hunks

	return &review, nil
}
