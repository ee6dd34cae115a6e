//go:build unit

package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/rules"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("should decode every option of an entry", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`[superproject "superproject:refs/heads/nyc"]
	srcRepo = manifest
	srcRef = refs/heads/nyc
	srcPath = default.xml
	toolType = repo
	exclude = refs/heads/a
	exclude = refs/heads/b
	groups = default,-notdefault
	recordSubmoduleLabels
	ignoreRemoteFailures = yes
	recordRemoteBranch = false
`)

		// when
		entries, invalid, err := rules.ParseDocument(data)

		// then
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, entries, 1)
		assert.Equal(t, "superproject:refs/heads/nyc", entries[0].Name)
		assert.Equal(t, entities.RuleDefinition{
			SrcRepo:               "manifest",
			SrcRef:                "refs/heads/nyc",
			SrcPath:               "default.xml",
			ToolType:              "repo",
			Exclude:               "refs/heads/a,refs/heads/b",
			Groups:                "default,-notdefault",
			RecordSubmoduleLabels: true,
			IgnoreRemoteFailures:  true,
			RecordRemoteBranch:    false,
		}, entries[0].Definition)
	})

	t.Run("should apply boolean defaults", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`[superproject "superproject:refs/heads/main"]
	srcRepo = manifest
	srcPath = default.xml
`)

		// when
		entries, invalid, err := rules.ParseDocument(data)

		// then
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Definition.RecordRemoteBranch)
		assert.False(t, entries[0].Definition.RecordSubmoduleLabels)
		assert.False(t, entries[0].Definition.IgnoreRemoteFailures)
	})

	t.Run("should keep entries in document order and skip other sections", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`[core]
	bare = true
[superproject "b:refs/heads/main"]
	srcRepo = manifest
[superproject "a:refs/heads/main"]
	srcRepo = manifest
`)

		// when
		entries, invalid, err := rules.ParseDocument(data)

		// then
		require.NoError(t, err)
		assert.Empty(t, invalid)
		require.Len(t, entries, 2)
		assert.Equal(t, "b:refs/heads/main", entries[0].Name)
		assert.Equal(t, "a:refs/heads/main", entries[1].Name)
	})

	t.Run("should accept an empty document", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte("")

		// when
		entries, invalid, err := rules.ParseDocument(data)

		// then
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Empty(t, invalid)
	})

	t.Run("should report an invalid boolean and keep its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`[superproject "super:refs/heads/good"]
	srcRepo = manifest
	srcRef = refs/heads/main
[superproject "super:refs/heads/bad"]
	srcRepo = manifest
	srcRef = refs/heads/main
	recordRemoteBranch = maybe
`)

		// when
		entries, invalid, err := rules.ParseDocument(data)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "super:refs/heads/good", entries[0].Name)
		require.Len(t, invalid, 1)
		assert.Contains(t, invalid[0].Error(), "super:refs/heads/bad")
		assert.Contains(t, invalid[0].Error(), "recordRemoteBranch")
		assert.Equal(t, entities.KindConfiguration, entities.KindOf(invalid[0]))
	})

	t.Run("should reject malformed syntax", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`[superproject "unterminated`)

		// when
		_, _, err := rules.ParseDocument(data)

		// then
		require.Error(t, err)
	})
}
