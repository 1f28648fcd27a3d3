package model

// RepoTopic maps a repository to the installation/topic identifier that
// scopes access and webhook routing for it.
type RepoTopic struct {
	Repo      RepoKey
	InstallID string
}
