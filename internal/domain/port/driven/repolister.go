package driven

import "context"

// RepoLister enumerates the repositories an owner holds on a provider. It is
// used when a whole installation is registered under one topic.
type RepoLister interface {
	ListRepoNames(ctx context.Context, owner string) ([]string, error)
}
