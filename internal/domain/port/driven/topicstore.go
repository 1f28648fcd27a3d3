package driven

import (
	"context"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
)

// TopicStore defines the driven port for repository topic registration.
type TopicStore interface {
	// GetTopic returns ErrNotFound when the repository was never registered.
	GetTopic(ctx context.Context, repo model.RepoKey) (*model.RepoTopic, error)

	// UpsertTopic registers the topic, overwriting install_id on conflict.
	UpsertTopic(ctx context.Context, topic model.RepoTopic) error
}
