package graph

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

var errEmptyRepository = errors.New("remote does not name a repository")

// manifestItem is one manifest file waiting to be read.
type manifestItem struct {
	repo       string
	ref        string
	path       string
	pinned     bool
	pinningKey entities.ProjectKey
}

func (m manifestItem) fields() logger.Fields {
	return logger.Fields{"repo": m.repo, "ref": m.ref, "path": m.path}
}

// Resolver flattens a graph of manifests into a set of projects.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve reads the manifest at root and everything it imports. Each
// (repository, path) pair is read at most once, so import cycles terminate.
// A project declared twice with different attributes is a configuration
// error; a pinned import overrides the revision of the project it names.
func (r *Resolver) Resolve(
	ctx context.Context,
	session repositories.RepositorySession,
	root entities.ManifestRef,
) (map[entities.ProjectKey]entities.ResolvedProject, error) {
	queue := []manifestItem{{repo: root.Repo, ref: root.Ref, path: root.Path}}
	processed := make(map[string]map[string]bool)
	projects := make(map[entities.ProjectKey]entities.ResolvedProject)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, entities.NewResolutionError(err, "resolution of %s interrupted", root)
		}

		item := queue[0]
		queue = queue[1:]

		seen, ok := processed[item.repo]
		if !ok {
			seen = make(map[string]bool)
			processed[item.repo] = seen
		}
		if seen[item.path] {
			continue
		}
		seen[item.path] = true

		doc, err := r.read(session, item)
		if err != nil {
			return nil, err
		}

		for _, declared := range doc.Projects {
			project := declared.Resolved()
			key := project.Key()
			if item.pinned && key == item.pinningKey {
				project.Revision = item.ref
			}

			existing, found := projects[key]
			if !found {
				projects[key] = project
				continue
			}
			if !existing.Equivalent(project) {
				return nil, entities.NewConfigurationError(
					"duplicate conflicting project %s in manifest %s\n%s\n%s",
					key, item.path, existing, project,
				)
			}
		}

		for _, local := range doc.LocalImports {
			queue = append(queue, manifestItem{
				repo:       item.repo,
				ref:        item.ref,
				path:       localImportPath(item.path, local.File),
				pinned:     item.pinned,
				pinningKey: item.pinningKey,
			})
		}

		for _, imp := range doc.Imports {
			repo, err := repositoryFromRemote(imp.Remote)
			if err != nil {
				return nil, entities.NewResolutionError(err, "invalid import remote in %s", item.path)
			}

			next := manifestItem{repo: repo, path: imp.Manifest, pinningKey: imp.Key()}
			if imp.Revision != "" {
				next.ref = imp.Revision
				next.pinned = true
			} else {
				next.ref = entities.HeadsPrefix + imp.Branch()
			}
			queue = append(queue, next)
		}
	}

	return projects, nil
}

func (r *Resolver) read(
	session repositories.RepositorySession,
	item manifestItem,
) (*entities.ManifestDocument, error) {
	logger.WithFields(item.fields()).Debug("Reading manifest")

	repo, err := session.Open(item.repo)
	if err != nil {
		logger.WithFields(item.fields()).Warnf("Cannot open manifest repository: %v", err)
		return nil, entities.NewResolutionError(err, "cannot open repository %s", item.repo)
	}

	spec := entities.ManifestRef{Repo: item.repo, Ref: item.ref, Path: item.path}
	data, err := repo.ReadBlob(spec.BlobSpec())
	if err != nil {
		logger.WithFields(item.fields()).Warnf("Cannot read manifest: %v", err)
		return nil, entities.NewResolutionError(err, "cannot read manifest %s", spec)
	}

	doc, err := ParseManifest(data)
	if err != nil {
		logger.WithFields(item.fields()).Warnf("Cannot parse manifest: %v", err)
		return nil, entities.NewResolutionError(err, "cannot parse manifest %s", spec)
	}
	return doc, nil
}

// localImportPath resolves file against the directory of the importing
// manifest. Absolute files are rooted at the repository.
func localImportPath(parent, file string) string {
	if strings.HasPrefix(file, "/") {
		return strings.TrimPrefix(path.Clean(file), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(parent), file), "/")
}

// repositoryFromRemote takes the store name from the path of an import
// remote URL.
func repositoryFromRemote(remote string) (string, error) {
	parsed, err := url.Parse(remote)
	if err != nil {
		return "", err
	}
	name := strings.Trim(parsed.Path, "/")
	if name == "" {
		return "", &url.Error{Op: "parse", URL: remote, Err: errEmptyRepository}
	}
	return name, nil
}
