package model

import (
	"errors"
	"fmt"
)

// RepoKey identifies a repository on a hosting provider.
type RepoKey struct {
	Provider string
	Owner    string
	Name     string
}

// String renders the key as provider/owner/name.
func (k RepoKey) String() string {
	return k.Provider + "/" + k.Owner + "/" + k.Name
}

// Validate reports an error when any component of the key is empty.
func (k RepoKey) Validate() error {
	if k.Provider == "" || k.Owner == "" || k.Name == "" {
		return fmt.Errorf("incomplete repository key %q", k.String())
	}
	return nil
}

// ReviewKey identifies one review (pull or merge request) within a repository.
type ReviewKey struct {
	Repo     RepoKey
	ReviewID string
}

// String renders the key as provider/owner/name#review.
func (k ReviewKey) String() string {
	return k.Repo.String() + "#" + k.ReviewID
}

// Validate reports an error when the repository or review id is missing.
func (k ReviewKey) Validate() error {
	if err := k.Repo.Validate(); err != nil {
		return err
	}
	if k.ReviewID == "" {
		return errors.New("empty review id")
	}
	return nil
}

// ReviewBlame is the unit of storage: the full blame vector of one review.
// Author is the review's submitter, unrelated to the per-hunk authors.
type ReviewBlame struct {
	Key    ReviewKey
	Author string
	Hunks  []HunkRecord
}

// Validate checks the key and every hunk in order.
func (r ReviewBlame) Validate() error {
	if err := r.Key.Validate(); err != nil {
		return err
	}
	for i, h := range r.Hunks {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("hunk %d: %w", i, err)
		}
	}
	return nil
}

// BlameBatch is one ingestion event: several reviews of the same repository.
type BlameBatch struct {
	Repo    RepoKey
	Reviews []ReviewBlame
}
