package gitstore

import (
	"fmt"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// GitRepositoryStore implements repositories.RepositoryStore over a Backend.
type GitRepositoryStore struct {
	settings *entities.SettingsHolder
	backend  Backend
}

var _ repositories.RepositoryStore = (*GitRepositoryStore)(nil)

// NewGitRepositoryStore creates a store; settings supply the URLs used to
// map remote URLs back onto store names.
func NewGitRepositoryStore(settings *entities.SettingsHolder, backend Backend) *GitRepositoryStore {
	return &GitRepositoryStore{settings: settings, backend: backend}
}

func (s *GitRepositoryStore) Exists(name string) bool {
	return s.backend.Exists(name)
}

func (s *GitRepositoryStore) NewSession() (repositories.RepositorySession, error) {
	settings, err := s.settings.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot open repository session: %w", err)
	}
	return newSession(s.backend, settings.Repositories), nil
}
