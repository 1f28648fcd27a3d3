package driven

import (
	"context"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
)

// IdentityStore defines the driven port over the externally owned users table.
type IdentityStore interface {
	// FindByAlias returns the identities whose alias list contains alias.
	// Implementations may stop after two matches; callers only need to tell
	// "none", "one" and "more than one" apart.
	FindByAlias(ctx context.Context, alias string) ([]model.UserIdentity, error)

	// SetTopicName updates the user's topic. Returns ErrNotFound when no user
	// has the given id.
	SetTopicName(ctx context.Context, userID, topicName string) error
}
