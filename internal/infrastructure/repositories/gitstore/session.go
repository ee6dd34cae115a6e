package gitstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// Session caches every repository opened while one event is handled.
type Session struct {
	backend  Backend
	config   entities.RepositoriesConfig
	repos    map[string]*GitRepository
	closed   bool
	localSet []*url.URL
}

var _ repositories.RepositorySession = (*Session)(nil)

func newSession(backend Backend, config entities.RepositoriesConfig) *Session {
	session := &Session{
		backend: backend,
		config:  config,
		repos:   make(map[string]*GitRepository),
	}
	for _, raw := range config.LocalURLs {
		if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
			session.localSet = append(session.localSet, parsed)
		}
	}
	return session
}

func (s *Session) Open(name string) (repositories.GitRepository, error) {
	return s.open(name)
}

func (s *Session) open(name string) (*GitRepository, error) {
	if s.closed {
		return nil, errors.New("repository session is closed")
	}
	if repo, ok := s.repos[name]; ok {
		return repo, nil
	}
	raw, err := s.backend.Open(name)
	if err != nil {
		return nil, err
	}
	repo := NewGitRepository(name, raw)
	s.repos[name] = repo
	return repo, nil
}

// RepositoryName maps a remote URL onto a store name. A URL below the
// canonical URL keeps its remainder; any other URL keeps its path. Values
// without a scheme are taken to be names already.
func (s *Session) RepositoryName(remoteURL string) string {
	if !strings.Contains(remoteURL, "://") {
		return strings.Trim(remoteURL, "/")
	}

	canonical := s.config.CanonicalURL
	if canonical != "" && strings.HasPrefix(remoteURL, canonical) {
		return strings.Trim(strings.TrimPrefix(remoteURL, canonical), "/")
	}

	logger.Warnf("%s: taking path from %s that looks from another host", canonical, remoteURL)
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return strings.Trim(remoteURL, "/")
	}
	return strings.Trim(parsed.Path, "/")
}

func (s *Session) ResolveRef(remoteURL, ref string) (entities.ObjectID, bool) {
	if entities.IsObjectID(ref) {
		return plumbing.NewHash(ref), true
	}

	name := s.RepositoryName(remoteURL)
	repo, err := s.open(name)
	if err != nil {
		logger.Warnf("%s: failed to open repository %s: %v", s.config.CanonicalURL, remoteURL, err)
		return entities.ZeroID, false
	}

	id, err := repo.ResolveRef(ref)
	if err != nil {
		logger.Warnf("%s: in repo %s: cannot resolve ref %s: %v", s.config.CanonicalURL, remoteURL, ref, err)
		return entities.ZeroID, false
	}
	return id, true
}

func (s *Session) IsLocallyHosted(remoteURL string) bool {
	parsed, err := url.Parse(remoteURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	for _, local := range s.localSet {
		if strings.EqualFold(local.Hostname(), parsed.Hostname()) {
			return true
		}
	}
	return false
}

func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for name, repo := range s.repos {
		if err := repo.close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", name, err))
		}
	}
	s.repos = nil
	return errors.Join(errs...)
}
