package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

func TestTopicRepo_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: repoA, InstallID: "topic-123"}))

	got, err := repo.GetTopic(ctx, repoA)
	require.NoError(t, err)
	assert.Equal(t, "topic-123", got.InstallID)
	assert.Equal(t, repoA, got.Repo)
}

func TestTopicRepo_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: repoA, InstallID: "topic-1"}))
	require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: repoA, InstallID: "topic-2"}))

	got, err := repo.GetTopic(ctx, repoA)
	require.NoError(t, err)
	assert.Equal(t, "topic-2", got.InstallID)

	var count int
	require.NoError(t, db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM repos`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTopicRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepo(db)

	_, err := repo.GetTopic(context.Background(), repoA)
	assert.ErrorIs(t, err, driven.ErrNotFound)
}

func TestTopicRepo_ProviderIsPartOfKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepo(db)
	ctx := context.Background()

	gitlab := model.RepoKey{Provider: "gitlab", Owner: "acme", Name: "repoA"}
	require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: repoA, InstallID: "gh"}))
	require.NoError(t, repo.UpsertTopic(ctx, model.RepoTopic{Repo: gitlab, InstallID: "gl"}))

	got, err := repo.GetTopic(ctx, gitlab)
	require.NoError(t, err)
	assert.Equal(t, "gl", got.InstallID)
}
