//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strconv"

	"github.com/beevik/etree"
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// ManifestBuilder helps create graph manifest documents with a fluent
// interface, and render them as XML.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	document entities.ManifestDocument
}

// NewManifestBuilder creates an empty manifest builder.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{BaseBuilder: testkit.NewBaseBuilder()}
}

// WithProject adds a project.
func (b *ManifestBuilder) WithProject(project entities.ManifestProject) *ManifestBuilder {
	b.document.Projects = append(b.document.Projects, project)
	return b
}

// WithImport adds a remote import.
func (b *ManifestBuilder) WithImport(imp entities.ManifestImport) *ManifestBuilder {
	b.document.Imports = append(b.document.Imports, imp)
	return b
}

// WithLocalImport adds a local import of file.
func (b *ManifestBuilder) WithLocalImport(file string) *ManifestBuilder {
	b.document.LocalImports = append(b.document.LocalImports, entities.LocalImport{File: file})
	return b
}

// Build creates the document (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildDocument()
}

// BuildDocument returns a copy of the document.
func (b *ManifestBuilder) BuildDocument() entities.ManifestDocument {
	return entities.ManifestDocument{
		Imports:      append([]entities.ManifestImport(nil), b.document.Imports...),
		LocalImports: append([]entities.LocalImport(nil), b.document.LocalImports...),
		Projects:     append([]entities.ManifestProject(nil), b.document.Projects...),
	}
}

// BuildXML renders the document.
func (b *ManifestBuilder) BuildXML() string {
	doc := etree.NewDocument()
	root := doc.CreateElement("manifest")

	if len(b.document.Imports) > 0 || len(b.document.LocalImports) > 0 {
		imports := root.CreateElement("imports")
		for _, imp := range b.document.Imports {
			el := imports.CreateElement("import")
			el.CreateAttr("manifest", imp.Manifest)
			el.CreateAttr("name", imp.Name)
			el.CreateAttr("remote", imp.Remote)
			setOptionalAttr(el, "revision", imp.Revision)
			setOptionalAttr(el, "remotebranch", imp.RemoteBranch)
		}
		for _, local := range b.document.LocalImports {
			imports.CreateElement("localimport").CreateAttr("file", local.File)
		}
	}

	projects := root.CreateElement("projects")
	for _, project := range b.document.Projects {
		el := projects.CreateElement("project")
		el.CreateAttr("name", project.Name)
		el.CreateAttr("path", project.Path)
		el.CreateAttr("remote", project.Remote)
		setOptionalAttr(el, "revision", project.Revision)
		setOptionalAttr(el, "remotebranch", project.RemoteBranch)
		if project.HistoryDepth > 0 {
			el.CreateAttr("historydepth", strconv.Itoa(project.HistoryDepth))
		}
	}

	doc.Indent(2) //nolint:mnd // indentation width
	out, err := doc.WriteToString()
	if err != nil {
		panic(err)
	}
	return out
}

func setOptionalAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.document = entities.ManifestDocument{}
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		document:    b.BuildDocument(),
	}
}
