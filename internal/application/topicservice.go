package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// topicPrefix starts every generated topic name.
const topicPrefix = "topic-"

// TopicService manages the repository to installation/topic registry and the
// user's topic link.
type TopicService struct {
	topics     driven.TopicStore
	identities driven.IdentityStore
	listers    map[string]driven.RepoLister // Keyed by provider, e.g. "github".
	timeout    time.Duration
	logger     *slog.Logger
}

// NewTopicService creates a TopicService. listers may be nil when no
// installation listing is needed.
func NewTopicService(
	topics driven.TopicStore,
	identities driven.IdentityStore,
	listers map[string]driven.RepoLister,
	timeout time.Duration,
	logger *slog.Logger,
) *TopicService {
	return &TopicService{
		topics:     topics,
		identities: identities,
		listers:    listers,
		timeout:    timeout,
		logger:     loggerOrDefault(logger),
	}
}

// GetTopic returns the install id registered for the repository. It fails
// with driven.ErrNotFound when the repository was never installed.
func (s *TopicService) GetTopic(ctx context.Context, owner, repo, provider string) (string, error) {
	key := model.RepoKey{Provider: provider, Owner: owner, Name: repo}

	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	topic, err := s.topics.GetTopic(callCtx, key)
	if err != nil {
		return "", fmt.Errorf("get topic for %s: %w", key, err)
	}

	return topic.InstallID, nil
}

// SaveTopic registers topicName for every repository in repoNames under one
// owner and provider. Existing registrations are overwritten. Each repository
// is written on its own; failures are logged and reported in the result.
func (s *TopicService) SaveTopic(ctx context.Context, owner, provider, topicName string, repoNames []string) (BatchResult, error) {
	if owner == "" || provider == "" || topicName == "" {
		return BatchResult{}, fmt.Errorf("save topic %q for %s/%s: %w", topicName, provider, owner, driven.ErrMalformedPayload)
	}

	var result BatchResult
	for _, name := range repoNames {
		key := model.RepoKey{Provider: provider, Owner: owner, Name: name}
		if err := key.Validate(); err != nil {
			err = fmt.Errorf("save topic for %s: %w: %w", key, driven.ErrMalformedPayload, err)
			s.logger.Error("skipping topic registration", "repo", key.String(), "error", err)
			result.fail(key.String(), err)
			continue
		}

		if err := s.upsert(ctx, model.RepoTopic{Repo: key, InstallID: topicName}); err != nil {
			s.logger.Error("failed to save topic", "repo", key.String(), "topic", topicName, "error", err)
			result.fail(key.String(), err)
			continue
		}
		result.Saved = append(result.Saved, key.String())
	}

	s.logger.Info("topic registered",
		"topic", topicName,
		"owner", owner,
		"provider", provider,
		"saved", len(result.Saved),
		"failed", len(result.Failed),
	)

	return result, nil
}

func (s *TopicService) upsert(ctx context.Context, topic model.RepoTopic) error {
	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()
	return s.topics.UpsertTopic(callCtx, topic)
}

// RegisterInstallation lists every repository the owner holds on provider and
// registers them all under topicName.
func (s *TopicService) RegisterInstallation(ctx context.Context, owner, provider, topicName string) (BatchResult, error) {
	lister, ok := s.listers[provider]
	if !ok || lister == nil {
		return BatchResult{}, fmt.Errorf("register installation for %s/%s: no repository lister for provider", provider, owner)
	}

	names, err := lister.ListRepoNames(ctx, owner)
	if err != nil {
		return BatchResult{}, fmt.Errorf("register installation for %s/%s: %w", provider, owner, err)
	}

	return s.SaveTopic(ctx, owner, provider, topicName, names)
}

// GenerateTopicName returns a new globally unique topic name for userID.
// Nothing is persisted.
func (s *TopicService) GenerateTopicName(userID string) string {
	name := topicPrefix + uuid.NewString()
	s.logger.Info("generated topic name", "user_id", userID, "topic", name)
	return name
}

// AttachTopicToUser records topicName as the user's topic. The write is
// best-effort: any failure, including an unknown user, is logged and dropped.
func (s *TopicService) AttachTopicToUser(ctx context.Context, userID, topicName string) {
	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	if err := s.identities.SetTopicName(callCtx, userID, topicName); err != nil {
		s.logger.Error("failed to attach topic to user",
			"user_id", userID,
			"topic", topicName,
			"error", err,
		)
		return
	}

	s.logger.Debug("topic attached to user", "user_id", userID, "topic", topicName)
}
