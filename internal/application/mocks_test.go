package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// --- In-memory port implementations for service tests ---

type memHunkStore struct {
	mu        sync.Mutex
	order     []model.ReviewKey
	rows      map[model.ReviewKey]model.ReviewBlame
	upsertErr map[string]error // Keyed by ReviewKey.String().
	getErr    error
	listErr   error
	calls     int
}

func newMemHunkStore() *memHunkStore {
	return &memHunkStore{
		rows:      make(map[model.ReviewKey]model.ReviewBlame),
		upsertErr: make(map[string]error),
	}
}

func (m *memHunkStore) UpsertReviewBlame(_ context.Context, review model.ReviewBlame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if err := m.upsertErr[review.Key.String()]; err != nil {
		return err
	}

	existing, ok := m.rows[review.Key]
	if !ok {
		m.order = append(m.order, review.Key)
		m.rows[review.Key] = review
		return nil
	}
	existing.Hunks = review.Hunks
	m.rows[review.Key] = existing
	return nil
}

func (m *memHunkStore) GetReviewBlame(_ context.Context, key model.ReviewKey) (*model.ReviewBlame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.rows[key]
	if !ok {
		return nil, fmt.Errorf("get review blame %s: %w", key, driven.ErrNotFound)
	}
	return &r, nil
}

func (m *memHunkStore) ListReviewsForRepo(_ context.Context, repo model.RepoKey) ([]model.ReviewBlame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.ReviewBlame
	for _, k := range m.order {
		if k.Repo == repo {
			out = append(out, m.rows[k])
		}
	}
	return out, nil
}

type memTopicStore struct {
	rows      map[model.RepoKey]string
	upsertErr map[string]error // Keyed by repo name.
}

func newMemTopicStore() *memTopicStore {
	return &memTopicStore{
		rows:      make(map[model.RepoKey]string),
		upsertErr: make(map[string]error),
	}
}

func (m *memTopicStore) GetTopic(_ context.Context, repo model.RepoKey) (*model.RepoTopic, error) {
	id, ok := m.rows[repo]
	if !ok {
		return nil, fmt.Errorf("get topic for %s: %w", repo, driven.ErrNotFound)
	}
	return &model.RepoTopic{Repo: repo, InstallID: id}, nil
}

func (m *memTopicStore) UpsertTopic(_ context.Context, topic model.RepoTopic) error {
	if err := m.upsertErr[topic.Repo.Name]; err != nil {
		return err
	}
	m.rows[topic.Repo] = topic.InstallID
	return nil
}

type memIdentityStore struct {
	users    []model.UserIdentity
	findErr  error
	setErr   error
	topicSet map[string]string
}

func (m *memIdentityStore) FindByAlias(_ context.Context, alias string) ([]model.UserIdentity, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []model.UserIdentity
	for _, u := range m.users {
		for _, a := range u.Aliases {
			if a == alias {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *memIdentityStore) SetTopicName(_ context.Context, userID, topicName string) error {
	if m.setErr != nil {
		return m.setErr
	}
	for _, u := range m.users {
		if u.ID == userID {
			if m.topicSet == nil {
				m.topicSet = make(map[string]string)
			}
			m.topicSet[userID] = topicName
			return nil
		}
	}
	return fmt.Errorf("set topic for user %s: %w", userID, driven.ErrNotFound)
}

type stubRepoLister struct {
	names []string
	err   error
	owner string
}

func (s *stubRepoLister) ListRepoNames(_ context.Context, owner string) ([]string, error) {
	s.owner = owner
	return s.names, s.err
}
