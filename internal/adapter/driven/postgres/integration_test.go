package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// setupTestDB connects to REVIEWBLAME_TEST_DATABASE_URL, applies migrations
// and truncates every table. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("REVIEWBLAME_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("REVIEWBLAME_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))

	_, err = db.SQL.ExecContext(ctx, `TRUNCATE hunks, repos, users`)
	require.NoError(t, err)

	return db
}

func addTestUser(t *testing.T, db *DB, id string, aliases ...string) {
	t.Helper()
	_, err := db.SQL.ExecContext(context.Background(),
		`INSERT INTO users (id, aliases) VALUES ($1, $2)`, id, pq.Array(aliases))
	require.NoError(t, err)
}

var repoA = model.RepoKey{Provider: "github", Owner: "acme", Name: "repoA"}

func TestIntegration_HunkRepo_RoundTripAndReplace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHunkRepo(db)
	ctx := context.Background()

	key := model.ReviewKey{Repo: repoA, ReviewID: "42"}
	first := model.ReviewBlame{Key: key, Author: "s@x.com", Hunks: []model.HunkRecord{
		{Author: "a@x.com", LineStart: 1, LineEnd: 5, Filepath: "f.go"},
	}}
	second := model.ReviewBlame{Key: key, Author: "other@x.com", Hunks: []model.HunkRecord{
		{Author: "b@z.com", LineStart: 10, LineEnd: 12, Filepath: "g.go"},
	}}

	require.NoError(t, repo.UpsertReviewBlame(ctx, first))
	got, err := repo.GetReviewBlame(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first, *got)

	require.NoError(t, repo.UpsertReviewBlame(ctx, second))
	got, err = repo.GetReviewBlame(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "s@x.com", got.Author)
	assert.Equal(t, second.Hunks, got.Hunks)

	reviews, err := repo.ListReviewsForRepo(ctx, repoA)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestIntegration_HunkRepo_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewHunkRepo(db).GetReviewBlame(context.Background(), model.ReviewKey{Repo: repoA, ReviewID: "1"})
	assert.ErrorIs(t, err, driven.ErrNotFound)
}

func TestIntegration_TopicRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepo(db)
	ctx := context.Background()

	_, err := repo.GetTopic(ctx, repoA)
	require.ErrorIs(t, err, driven.ErrNotFound)

	for i := range 2 {
		require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: repoA, InstallID: fmt.Sprintf("topic-%d", i)}))
	}

	got, err := repo.GetTopic(ctx, repoA)
	require.NoError(t, err)
	assert.Equal(t, "topic-1", got.InstallID)
}

func TestIntegration_IdentityRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdentityRepo(db)
	ctx := context.Background()
	addTestUser(t, db, "u1", "a@x.com", "a@y.com")

	users, err := repo.FindByAlias(ctx, "a@y.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []string{"a@x.com", "a@y.com"}, users[0].Aliases)

	require.NoError(t, repo.SetTopicName(ctx, "u1", "topic-1"))
	assert.ErrorIs(t, repo.SetTopicName(ctx, "ghost", "topic-1"), driven.ErrNotFound)
}

func TestIntegration_MigrateDownKeepsUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	addTestUser(t, db, "u1", "a@x.com")

	m, err := newMigrator(db)
	require.NoError(t, err)
	require.NoError(t, m.Down())
	t.Cleanup(func() { _ = RunMigrations(db) })

	var count int
	require.NoError(t, db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)

	var hunks *string
	require.NoError(t, db.SQL.QueryRowContext(ctx, `SELECT to_regclass('hunks')::text`).Scan(&hunks))
	assert.Nil(t, hunks)
}
