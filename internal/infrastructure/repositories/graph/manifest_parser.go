package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

const (
	elementManifest    = "manifest"
	elementImports     = "imports"
	elementImport      = "import"
	elementLocalImport = "localimport"
	elementProjects    = "projects"
	elementProject     = "project"
)

// ParseManifest decodes a graph manifest document. External entities are
// never resolved.
func ParseManifest(data []byte) (*entities.ManifestDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("XML parse error: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != elementManifest {
		return nil, errors.New("XML parse error: root element must be <manifest>")
	}

	manifest := &entities.ManifestDocument{}
	for _, imports := range root.SelectElements(elementImports) {
		for _, el := range imports.SelectElements(elementImport) {
			imp, err := parseImport(el)
			if err != nil {
				return nil, err
			}
			manifest.Imports = append(manifest.Imports, imp)
		}
		for _, el := range imports.SelectElements(elementLocalImport) {
			file := strings.TrimSpace(el.SelectAttrValue("file", ""))
			if file == "" {
				return nil, fmt.Errorf("<%s> is missing the file attribute", elementLocalImport)
			}
			manifest.LocalImports = append(manifest.LocalImports, entities.LocalImport{File: file})
		}
	}

	for _, projects := range root.SelectElements(elementProjects) {
		for _, el := range projects.SelectElements(elementProject) {
			project, err := parseProject(el)
			if err != nil {
				return nil, err
			}
			manifest.Projects = append(manifest.Projects, project)
		}
	}

	return manifest, nil
}

func parseImport(el *etree.Element) (entities.ManifestImport, error) {
	imp := entities.ManifestImport{
		Manifest:     el.SelectAttrValue("manifest", ""),
		Name:         el.SelectAttrValue("name", ""),
		Remote:       el.SelectAttrValue("remote", ""),
		Revision:     el.SelectAttrValue("revision", ""),
		RemoteBranch: el.SelectAttrValue("remotebranch", ""),
	}
	if err := requireAttrs(elementImport, map[string]string{
		"manifest": imp.Manifest, "name": imp.Name, "remote": imp.Remote,
	}); err != nil {
		return imp, err
	}
	return imp, nil
}

func parseProject(el *etree.Element) (entities.ManifestProject, error) {
	project := entities.ManifestProject{
		Name:         el.SelectAttrValue("name", ""),
		Path:         el.SelectAttrValue("path", ""),
		Remote:       el.SelectAttrValue("remote", ""),
		Revision:     el.SelectAttrValue("revision", ""),
		RemoteBranch: el.SelectAttrValue("remotebranch", ""),
	}
	if err := requireAttrs(elementProject, map[string]string{
		"name": project.Name, "path": project.Path, "remote": project.Remote,
	}); err != nil {
		return project, err
	}

	if depth := strings.TrimSpace(el.SelectAttrValue("historydepth", "")); depth != "" {
		value, err := strconv.Atoi(depth)
		if err != nil || value < 0 {
			return project, fmt.Errorf("project %s has invalid historydepth %q", project.Name, depth)
		}
		project.HistoryDepth = value
	}
	return project, nil
}

func requireAttrs(element string, attrs map[string]string) error {
	var missing []string
	for _, name := range []string{"manifest", "name", "path", "remote"} {
		value, wanted := attrs[name]
		if wanted && value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("<%s> is missing required attributes: %s", element, strings.Join(missing, ", "))
	}
	return nil
}
