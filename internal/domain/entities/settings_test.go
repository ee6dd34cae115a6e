//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestParseSettings(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`
repositories:
  root: /srv/git
rules:
  repository: All-Projects
`)

		// when
		settings, err := entities.ParseSettings(data)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Supermanifest", settings.Identity.Name)
		assert.Equal(t, "supermanifest@localhost", settings.Identity.Email)
		assert.Equal(t, "Update submodules from manifest", settings.CommitMessage)
		assert.Equal(t, "refs/meta/config", settings.Rules.Ref)
		assert.Equal(t, "supermanifest.config", settings.Rules.Path)
		assert.Equal(t, 30*time.Second, settings.Watch.Interval)
		assert.True(t, settings.Rules.FromRepository())
		assert.True(t, settings.Rules.IsSourceEvent("All-Projects", "refs/meta/config"))
		assert.False(t, settings.Rules.IsSourceEvent("All-Projects", "refs/heads/main"))
	})

	t.Run("should read every field", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`
repositories:
  root: /srv/git
  canonical_url: https://git.example.com/
  local_urls:
    - https://git.example.com/
    - ssh://git.example.com:29418/
identity:
  name: Bot
  email: bot@example.com
commit_message: Sync
rules:
  file: /etc/supermanifest.config
watch:
  interval: 5m
`)

		// when
		settings, err := entities.ParseSettings(data)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://git.example.com/", settings.Repositories.CanonicalURL)
		assert.Equal(t, []string{"https://git.example.com/"}, settings.Repositories.LocalURLs)
		assert.Equal(t, "Bot", settings.Identity.Name)
		assert.Equal(t, "Sync", settings.CommitMessage)
		assert.False(t, settings.Rules.FromRepository())
		assert.Equal(t, "/etc/supermanifest.config", settings.Rules.String())
		assert.Equal(t, 5*time.Minute, settings.Watch.Interval)
	})

	t.Run("should expand environment variables", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_SUPERMANIFEST_ROOT", "/data/git")
		data := []byte("repositories:\n  root: ${TEST_SUPERMANIFEST_ROOT}/repos\nrules:\n  file: rules.config\n")

		// when
		settings, err := entities.ParseSettings(data)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/data/git/repos", settings.Repositories.Root)
	})

	t.Run("should require repositories root", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("rules:\n  file: rules.config\n")

		// when
		_, err := entities.ParseSettings(data)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repositories.root")
	})

	t.Run("should require a rule source", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("repositories:\n  root: /srv/git\n")

		// when
		_, err := entities.ParseSettings(data)

		// then
		require.Error(t, err)
	})

	t.Run("should refuse two rule sources", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("repositories:\n  root: /srv/git\nrules:\n  file: a\n  repository: b\n")

		// when
		_, err := entities.ParseSettings(data)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("repositories: [")

		// when
		_, err := entities.ParseSettings(data)

		// then
		require.Error(t, err)
	})
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should load file from disk", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "supermanifest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("repositories:\n  root: /srv/git\nrules:\n  file: r\n"), 0o600))

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/srv/git", settings.Repositories.Root)
	})

	t.Run("should fail for missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})
}

func TestSettingsHolder(t *testing.T) {
	t.Parallel()

	t.Run("should fail before settings are stored", func(t *testing.T) {
		t.Parallel()

		// given
		holder := entities.NewSettingsHolder()

		// when
		_, err := holder.Load()

		// then
		require.Error(t, err)
	})

	t.Run("should return stored settings", func(t *testing.T) {
		t.Parallel()

		// given
		holder := entities.NewSettingsHolder()
		settings := &entities.Settings{CommitMessage: "x"}

		// when
		holder.Store(settings)
		loaded, err := holder.Load()

		// then
		require.NoError(t, err)
		assert.Same(t, settings, loaded)
	})
}
