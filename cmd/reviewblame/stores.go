package main

import (
	"context"
	"fmt"
	"log/slog"

	pgadapter "github.com/ericfisherdev/reviewblame/internal/adapter/driven/postgres"
	sqliteadapter "github.com/ericfisherdev/reviewblame/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewblame/internal/config"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// stores bundles the driven ports backed by the configured database.
type stores struct {
	hunks      driven.HunkStore
	topics     driven.TopicStore
	identities driven.IdentityStore

	ping    func(context.Context) error
	closeFn func() error
}

func (s *stores) close() {
	if err := s.closeFn(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// openStores opens the configured backend and, when migrate is set, applies
// pending migrations before returning.
func openStores(ctx context.Context, cfg *config.Config, migrate bool) (*stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("database opened", "driver", cfg.DBDriver, "path", cfg.DBPath)

		if migrate {
			if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
				_ = db.Close()
				return nil, err
			}
			slog.Info("migrations complete")
		}

		return &stores{
			hunks:      sqliteadapter.NewHunkRepo(db),
			topics:     sqliteadapter.NewTopicRepo(db),
			identities: sqliteadapter.NewIdentityRepo(db),
			ping:       db.Ping,
			closeFn:    db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := pgadapter.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("database opened", "driver", cfg.DBDriver)

		if migrate {
			if err := pgadapter.RunMigrations(db); err != nil {
				_ = db.Close()
				return nil, err
			}
			slog.Info("migrations complete")
		}

		return &stores{
			hunks:      pgadapter.NewHunkRepo(db),
			topics:     pgadapter.NewTopicRepo(db),
			identities: pgadapter.NewIdentityRepo(db),
			ping:       db.Ping,
			closeFn:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
