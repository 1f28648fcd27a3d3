package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// IdentityService resolves a raw author alias to the contributor's full alias set.
type IdentityService struct {
	identities driven.IdentityStore
	timeout    time.Duration
	logger     *slog.Logger
}

// NewIdentityService creates an IdentityService. timeout bounds each store call.
func NewIdentityService(identities driven.IdentityStore, timeout time.Duration, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		identities: identities,
		timeout:    timeout,
		logger:     loggerOrDefault(logger),
	}
}

// ResolveAliases returns every alias of the identity that owns alias.
// It fails with driven.ErrAliasNotFound when no identity owns it and with
// driven.ErrAmbiguousAlias when several do; callers must not proceed with
// a query in either case.
func (s *IdentityService) ResolveAliases(ctx context.Context, alias string) (model.AliasSet, error) {
	callCtx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	users, err := s.identities.FindByAlias(callCtx, alias)
	if err != nil {
		return nil, fmt.Errorf("resolve aliases for %q: %w", alias, err)
	}

	switch len(users) {
	case 0:
		s.logger.Error("no identity carries alias", "alias", alias)
		return nil, fmt.Errorf("resolve aliases for %q: %w", alias, driven.ErrAliasNotFound)
	case 1:
	default:
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		s.logger.Error("alias claimed by several identities", "alias", alias, "user_ids", ids)
		return nil, fmt.Errorf("resolve aliases for %q (users %v): %w", alias, ids, driven.ErrAmbiguousAlias)
	}

	return model.NewAliasSet(users[0].Aliases...), nil
}
