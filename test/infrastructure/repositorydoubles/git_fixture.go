//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/gitstore"
)

// FixtureHost is the host name the fixture repositories are served from.
const FixtureHost = "https://git.example.com/"

// GitFixture is a set of in-memory repositories with helpers to commit files
// onto branches.
type GitFixture struct {
	Backend  *gitstore.MemoryBackend
	Settings *entities.SettingsHolder
}

// NewGitFixture creates an empty fixture whose settings treat FixtureHost as
// the local host.
func NewGitFixture() *GitFixture {
	holder := entities.NewSettingsHolder()
	holder.Store(&entities.Settings{
		Repositories: entities.RepositoriesConfig{
			Root:         "/unused",
			CanonicalURL: FixtureHost,
			LocalURLs:    []string{FixtureHost},
		},
		Identity:      entities.IdentityConfig{Name: "Supermanifest", Email: "supermanifest@localhost"},
		CommitMessage: "Update submodules from manifest",
		Rules:         entities.RulesConfig{Repository: "All-Projects", Ref: "refs/meta/config", Path: "supermanifest.config"},
		Watch:         entities.WatchConfig{Interval: time.Second},
	})
	return &GitFixture{Backend: gitstore.NewMemoryBackend(), Settings: holder}
}

// Store returns a repository store over the fixture repositories.
func (f *GitFixture) Store() *gitstore.GitRepositoryStore {
	return gitstore.NewGitRepositoryStore(f.Settings, f.Backend)
}

// Repo returns the repository called name, creating it when missing.
func (f *GitFixture) Repo(t testing.TB, name string) *gitstore.GitRepository {
	t.Helper()
	if !f.Backend.Exists(name) {
		_, err := f.Backend.Create(name)
		require.NoError(t, err)
	}
	raw, err := f.Backend.Open(name)
	require.NoError(t, err)
	return gitstore.NewGitRepository(name, raw)
}

// Commit writes files as a new commit on ref of repository name and returns
// the commit id. The commit's parent is the previous tip of ref, if any.
func (f *GitFixture) Commit(t testing.TB, name, ref string, files map[string]string) entities.ObjectID {
	t.Helper()
	repo := f.Repo(t, name)

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]entities.TreeEntry, 0, len(files))
	for _, path := range paths {
		blob, err := repo.WriteBlob([]byte(files[path]))
		require.NoError(t, err)
		entries = append(entries, entities.TreeEntry{Path: path, Mode: filemode.Regular, ID: blob})
	}
	tree, err := repo.WriteTree(entries)
	require.NoError(t, err)

	previous, err := repo.ResolveRef(ref)
	if err != nil {
		previous = entities.ZeroID
	}
	spec := entities.CommitSpec{
		Tree:      tree,
		Author:    entities.Signature{Name: "Fixture", Email: "fixture@localhost", When: time.Unix(0, 0).UTC()},
		Committer: entities.Signature{Name: "Fixture", Email: "fixture@localhost", When: time.Unix(0, 0).UTC()},
		Message:   "fixture commit",
	}
	if !previous.IsZero() {
		spec.Parents = []entities.ObjectID{previous}
	}
	commit, err := repo.WriteCommit(spec)
	require.NoError(t, err)

	result, err := repo.UpdateRef(ref, previous, commit)
	require.NoError(t, err)
	require.True(t, result.Succeeded(), "fixture ref update of %s:%s returned %s", name, ref, result)
	return commit
}
