//go:build unit

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/graph"
	"github.com/rios0rios0/supermanifest/test/domain/entitybuilders"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("should decode imports, local imports and projects", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<manifest>
  <imports>
    <import manifest="default" name="platform/manifest" remote="https://git.example.com/platform/manifest" revision="refs/heads/stable"/>
    <localimport file="common.xml"/>
  </imports>
  <projects>
    <project name="project1" path="path1" remote="https://git.example.com/project1" remotebranch="develop" historydepth="1"/>
    <project name="project2" path="path2" remote="https://git.example.com/project2" revision="0123456789abcdef0123456789abcdef01234567"/>
  </projects>
</manifest>`)

		// when
		doc, err := graph.ParseManifest(data)

		// then
		require.NoError(t, err)
		require.Len(t, doc.Imports, 1)
		assert.Equal(t, entities.ManifestImport{
			Manifest: "default",
			Name:     "platform/manifest",
			Remote:   "https://git.example.com/platform/manifest",
			Revision: "refs/heads/stable",
		}, doc.Imports[0])
		assert.Equal(t, []entities.LocalImport{{File: "common.xml"}}, doc.LocalImports)
		require.Len(t, doc.Projects, 2)
		assert.Equal(t, "develop", doc.Projects[0].RemoteBranch)
		assert.Equal(t, 1, doc.Projects[0].HistoryDepth)
		assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", doc.Projects[1].Revision)
	})

	t.Run("should read documents rendered by the builder", func(t *testing.T) {
		t.Parallel()

		// given
		project := entities.ManifestProject{Name: "p", Path: "p", Remote: "https://git.example.com/p", HistoryDepth: 3}
		xml := entitybuilders.NewManifestBuilder().WithProject(project).WithLocalImport("more.xml").BuildXML()

		// when
		doc, err := graph.ParseManifest([]byte(xml))

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.ManifestProject{project}, doc.Projects)
		assert.Equal(t, []entities.LocalImport{{File: "more.xml"}}, doc.LocalImports)
	})

	t.Run("should accept an empty manifest", func(t *testing.T) {
		t.Parallel()

		// given
		data := []byte(`<manifest/>`)

		// when
		doc, err := graph.ParseManifest(data)

		// then
		require.NoError(t, err)
		assert.Empty(t, doc.Projects)
		assert.Empty(t, doc.Imports)
	})

	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{
			name:     "should reject malformed XML",
			data:     `<manifest name=></manifest>`,
			contains: "XML parse error",
		},
		{
			name:     "should reject another root element",
			data:     `<other/>`,
			contains: "root element must be <manifest>",
		},
		{
			name:     "should reject a project without path",
			data:     `<manifest><projects><project name="a" remote="https://h/a"/></projects></manifest>`,
			contains: "missing required attributes: path",
		},
		{
			name:     "should list every missing import attribute",
			data:     `<manifest><imports><import name="a"/></imports></manifest>`,
			contains: "manifest, remote",
		},
		{
			name:     "should reject a local import without file",
			data:     `<manifest><imports><localimport/></imports></manifest>`,
			contains: "missing the file attribute",
		},
		{
			name:     "should reject a negative history depth",
			data:     `<manifest><projects><project name="a" path="a" remote="https://h/a" historydepth="-1"/></projects></manifest>`,
			contains: "invalid historydepth",
		},
		{
			name:     "should reject a non numeric history depth",
			data:     `<manifest><projects><project name="a" path="a" remote="https://h/a" historydepth="deep"/></projects></manifest>`,
			contains: "invalid historydepth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			data := []byte(tt.data)

			// when
			_, err := graph.ParseManifest(data)

			// then
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
