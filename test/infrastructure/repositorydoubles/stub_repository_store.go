//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// StubRepositoryStore implements repositories.RepositoryStore. Sessions are
// StubSession values sharing Remote.
type StubRepositoryStore struct {
	Existing   map[string]bool
	SessionErr error
	Remote     *StubRemoteReader
	Sessions   []*StubSession
}

var _ repositories.RepositoryStore = (*StubRepositoryStore)(nil)

func (s *StubRepositoryStore) Exists(name string) bool {
	return s.Existing[name]
}

func (s *StubRepositoryStore) NewSession() (repositories.RepositorySession, error) {
	if s.SessionErr != nil {
		return nil, s.SessionErr
	}
	remote := s.Remote
	if remote == nil {
		remote = &StubRemoteReader{}
	}
	session := &StubSession{StubRemoteReader: remote}
	s.Sessions = append(s.Sessions, session)
	return session, nil
}

// StubSession implements repositories.RepositorySession without any
// repository behind it.
type StubSession struct {
	*StubRemoteReader
	CloseCalls int
}

var _ repositories.RepositorySession = (*StubSession)(nil)

func (s *StubSession) Open(_ string) (repositories.GitRepository, error) {
	return nil, repositories.ErrRepositoryNotFound
}

func (s *StubSession) Close() error {
	s.CloseCalls++
	return nil
}

// StubRemoteReader implements repositories.RemoteReader from fixed tables.
type StubRemoteReader struct {
	// Refs maps "<remoteURL> <ref>" to a commit.
	Refs map[string]entities.ObjectID
	// LocalHosts lists the remote URLs reported as locally hosted.
	LocalHosts map[string]bool
	// Lookups records every ResolveRef call as "<remoteURL> <ref>".
	Lookups []string
}

var _ repositories.RemoteReader = (*StubRemoteReader)(nil)

func (r *StubRemoteReader) ResolveRef(remoteURL, ref string) (entities.ObjectID, bool) {
	if entities.IsObjectID(ref) {
		return plumbing.NewHash(ref), true
	}
	r.Lookups = append(r.Lookups, remoteURL+" "+ref)
	id, ok := r.Refs[remoteURL+" "+ref]
	return id, ok
}

func (r *StubRemoteReader) IsLocallyHosted(remoteURL string) bool {
	return r.LocalHosts[remoteURL]
}
