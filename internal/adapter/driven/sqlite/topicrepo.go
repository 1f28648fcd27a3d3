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
var _ driven.TopicStore = (*TopicRepo)(nil)

// TopicRepo is the SQLite implementation of the TopicStore port interface.
type TopicRepo struct {
	db *DB
}

// NewTopicRepo creates a new TopicRepo backed by the given DB.
func NewTopicRepo(db *DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// GetTopic retrieves the topic registered for a repository.
func (r *TopicRepo) GetTopic(ctx context.Context, repo model.RepoKey) (*model.RepoTopic, error) {
	const query = `
		SELECT install_id
		FROM repos
		WHERE repo_owner = ? AND repo_provider = ? AND repo_name = ?
	`

	topic := model.RepoTopic{Repo: repo}
	err := r.db.Reader.QueryRowContext(ctx, query, repo.Owner, repo.Provider, repo.Name).Scan(&topic.InstallID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get topic for %s: %w", repo, driven.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(ctx, "get topic for "+repo.String(), err)
	}

	return &topic, nil
}

// UpsertTopic registers a repository's topic. On conflict the install id is replaced.
func (r *TopicRepo) UpsertTopic(ctx context.Context, topic model.RepoTopic) error {
	const query = `
		INSERT INTO repos (repo_name, repo_owner, repo_provider, install_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(repo_name, repo_owner, repo_provider) DO UPDATE SET
			install_id = excluded.install_id
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		topic.Repo.Name, topic.Repo.Owner, topic.Repo.Provider, topic.InstallID,
	)
	if err != nil {
		return storeErr(ctx, "upsert topic for "+topic.Repo.String(), err)
	}

	return nil
}
