package repositories

import (
	"errors"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

var (
	// ErrRepositoryNotFound is returned when no repository has the requested name.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrRefNotFound is returned when a ref does not resolve to a commit.
	ErrRefNotFound = errors.New("ref not found")
	// ErrObjectNotFound is returned when a path does not exist at a ref.
	ErrObjectNotFound = errors.New("object not found")
)

// GitRepository is an open repository of the store.
type GitRepository interface {
	// Name returns the repository name inside the store.
	Name() string

	// ResolveRef peels ref (a full or short ref name, or an object id) down
	// to a commit id. It returns ErrRefNotFound when nothing matches.
	ResolveRef(ref string) (entities.ObjectID, error)

	// ReadBlob returns the content at spec, written "<ref>:<path>".
	ReadBlob(spec string) ([]byte, error)

	// ListBranches returns the tip of every refs/heads/ branch.
	ListBranches() (map[string]entities.ObjectID, error)

	// WriteBlob stores content and returns its id.
	WriteBlob(content []byte) (entities.ObjectID, error)

	// WriteTree stores a tree holding entries, creating intermediate trees.
	WriteTree(entries []entities.TreeEntry) (entities.ObjectID, error)

	// WriteCommit stores a commit object.
	WriteCommit(commit entities.CommitSpec) (entities.ObjectID, error)

	// UpdateRef points branch at newID only if it currently points at
	// expectedOld (entities.ZeroID meaning "does not exist").
	UpdateRef(branch string, expectedOld, newID entities.ObjectID) (entities.RefUpdateResult, error)
}

// RemoteReader resolves the refs that manifests point submodules at.
type RemoteReader interface {
	// ResolveRef returns the commit ref designates in the repository at
	// remoteURL. An object id is returned unchanged without any lookup.
	ResolveRef(remoteURL, ref string) (entities.ObjectID, bool)

	// IsLocallyHosted reports whether remoteURL is served by this host.
	IsLocallyHosted(remoteURL string) bool
}

// RepositorySession caches the repositories opened while handling one event.
// Close releases all of them.
type RepositorySession interface {
	RemoteReader

	// Open returns the repository called name, or ErrRepositoryNotFound.
	Open(name string) (GitRepository, error)

	// Close releases every repository opened through the session.
	Close() error
}

// RepositoryStore gives access to the repositories of this host.
type RepositoryStore interface {
	// Exists reports whether a repository called name exists.
	Exists(name string) bool

	// NewSession starts a per-event repository cache.
	NewSession() (RepositorySession, error)
}
