package main

import (
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/reviewblame/internal/application"
	"github.com/ericfisherdev/reviewblame/internal/config"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// services holds the application layer wired to one set of stores.
type services struct {
	ingest     *application.IngestService
	query      *application.QueryService
	identities *application.IdentityService
	topics     *application.TopicService
}

// newServices builds every application service from cfg. listers may be nil
// when no command needs installation listing.
func newServices(cfg *config.Config, s *stores, listers map[string]driven.RepoLister, logger *slog.Logger) (*services, error) {
	policy, err := application.ParseReadPolicy(cfg.FilesPolicy)
	if err != nil {
		return nil, fmt.Errorf("REVIEWBLAME_FILES_POLICY: %w", err)
	}

	return &services{
		ingest:     application.NewIngestService(s.hunks, cfg.StoreTimeout, logger),
		query:      application.NewQueryService(s.hunks, cfg.StoreTimeout, logger, application.WithFilesPolicy(policy)),
		identities: application.NewIdentityService(s.identities, cfg.StoreTimeout, logger),
		topics:     application.NewTopicService(s.topics, s.identities, listers, cfg.StoreTimeout, logger),
	}, nil
}
