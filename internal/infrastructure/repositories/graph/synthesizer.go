package graph

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	formatconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

const submoduleSection = "submodule"

// Synthesizer turns a resolved project set into one superproject commit.
type Synthesizer struct {
	identity entities.IdentityConfig
	message  string
	now      func() time.Time
}

func NewSynthesizer(identity entities.IdentityConfig, message string) *Synthesizer {
	return &Synthesizer{identity: identity, message: message, now: time.Now}
}

// Synthesize writes a tree with one gitlink per project plus .gitmodules,
// commits it on top of the current tip of targetRef and moves targetRef with
// a compare-and-swap. Projects nested under another project, and projects
// whose ref cannot be resolved, are skipped.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	dest repositories.GitRepository,
	targetRef string,
	projects map[entities.ProjectKey]entities.ResolvedProject,
	reader repositories.RemoteReader,
) (*entities.SyncResult, error) {
	result := &entities.SyncResult{DestRepo: dest.Name(), TargetRef: targetRef}
	modules := formatconfig.New()
	var entries []entities.TreeEntry
	parent := ""

	for _, project := range sortByPath(projects) {
		fields := logger.Fields{"project": project.Name, "path": project.Path, "dest": dest.Name()}
		location := cleanPath(project.Path)

		if location == "" || location == entities.GitModulesPath {
			s.skip(result, project, "path cannot hold a submodule")
			logger.WithFields(fields).Warn("Skipping project with an unusable path")
			continue
		}
		if parent != "" && strings.HasPrefix(location+"/", parent+"/") {
			s.skip(result, project, "nested under "+parent)
			logger.WithFields(fields).Warnf("Skipping project as git doesn't support nested submodules (under %s)", parent)
			continue
		}

		ref := project.Ref()
		var id entities.ObjectID
		if entities.IsObjectID(ref) {
			id = plumbing.NewHash(ref)
		} else {
			resolved, ok := reader.ResolveRef(project.RemoteURL, ref)
			if !ok {
				s.skip(result, project, "cannot resolve "+ref)
				logger.WithFields(fields).Warnf("Failed to get ref '%s', skipping", ref)
				continue
			}
			id = resolved
		}

		if project.HistoryDepth > 1 {
			logger.WithFields(fields).Warnf(
				"historydepth %d is recorded as a shallow clone of depth 1", project.HistoryDepth)
		}

		entry := entities.SubmoduleEntry{
			Path:    location,
			URL:     submoduleURL(dest.Name(), project.RemoteURL, reader),
			Branch:  ref,
			Shallow: project.HistoryDepth > 0,
			Commit:  id,
		}
		section := modules.Section(submoduleSection).Subsection(entry.Path).
			SetOption("path", entry.Path).
			SetOption("url", entry.URL).
			SetOption("branch", entry.Branch)
		if entry.Shallow {
			section.SetOption("shallow", strconv.FormatBool(true))
		}

		entries = append(entries, entities.TreeEntry{Path: entry.Path, Mode: filemode.Submodule, ID: id})
		result.Submodules = append(result.Submodules, entry)
		parent = location
	}

	var buffer bytes.Buffer
	if err := formatconfig.NewEncoder(&buffer).Encode(modules); err != nil {
		return nil, entities.NewInternalError(err, "cannot encode %s", entities.GitModulesPath)
	}
	blob, err := dest.WriteBlob(buffer.Bytes())
	if err != nil {
		return nil, entities.NewInternalError(err, "cannot write %s", entities.GitModulesPath)
	}
	entries = append(entries, entities.TreeEntry{Path: entities.GitModulesPath, Mode: filemode.Regular, ID: blob})

	if result.Tree, err = dest.WriteTree(entries); err != nil {
		return nil, entities.NewInternalError(err, "cannot write tree for %s", dest.Name())
	}

	if result.Previous, err = s.currentTip(dest, targetRef); err != nil {
		return nil, err
	}

	if result.Commit, err = dest.WriteCommit(s.commitSpec(result.Tree, result.Previous)); err != nil {
		return nil, entities.NewInternalError(err, "cannot write commit for %s", dest.Name())
	}

	if err = ctx.Err(); err != nil {
		return nil, entities.NewInternalError(err, "update of %s:%s canceled", dest.Name(), targetRef)
	}

	result.Outcome, err = dest.UpdateRef(targetRef, result.Previous, result.Commit)
	switch {
	case result.Outcome.Succeeded():
		logger.WithFields(logger.Fields{"dest": dest.Name(), "ref": targetRef, "commit": result.Commit}).
			Infof("Updated superproject (%s)", result.Outcome)
		return result, nil
	case result.Outcome == entities.RefRejected || result.Outcome == entities.RefLockFailure:
		return nil, entities.NewConflictError("cannot lock %s:%s, it moved during the update", dest.Name(), targetRef)
	default:
		return nil, entities.NewInternalError(err, "update of %s:%s to %s failed with %s",
			dest.Name(), targetRef, result.Commit, result.Outcome)
	}
}

func (s *Synthesizer) skip(result *entities.SyncResult, project entities.ResolvedProject, reason string) {
	result.Skipped = append(result.Skipped, entities.SkippedProject{Project: project, Reason: reason})
}

func (s *Synthesizer) currentTip(dest repositories.GitRepository, targetRef string) (entities.ObjectID, error) {
	tip, err := dest.ResolveRef(targetRef)
	if errors.Is(err, repositories.ErrRefNotFound) {
		return entities.ZeroID, nil
	}
	if err != nil {
		return entities.ZeroID, entities.NewInternalError(err, "cannot read %s:%s", dest.Name(), targetRef)
	}
	return tip, nil
}

func (s *Synthesizer) commitSpec(tree, previous entities.ObjectID) entities.CommitSpec {
	signature := entities.Signature{Name: s.identity.Name, Email: s.identity.Email, When: s.now()}
	spec := entities.CommitSpec{
		Tree:      tree,
		Author:    signature,
		Committer: signature,
		Message:   s.message,
	}
	if !previous.IsZero() {
		spec.Parents = []entities.ObjectID{previous}
	}
	return spec
}

// sortByPath orders projects so that a project always follows its parent
// directory. A trailing slash is compared so every path below "a" directly
// follows "a", even when "a-b" exists.
func sortByPath(projects map[entities.ProjectKey]entities.ResolvedProject) []entities.ResolvedProject {
	sorted := make([]entities.ResolvedProject, 0, len(projects))
	for _, project := range projects {
		sorted = append(sorted, project)
	}
	sort.Slice(sorted, func(i, j int) bool {
		left := cleanPath(sorted[i].Path) + "/"
		right := cleanPath(sorted[j].Path) + "/"
		if left != right {
			return left < right
		}
		return sorted[i].Key() < sorted[j].Key()
	})
	return sorted
}

// cleanPath returns the tree location of a project path, the same way tree
// entries are normalized when written.
func cleanPath(projectPath string) string {
	return strings.Trim(path.Clean("/"+projectPath), "/")
}

// submoduleURL relativizes URLs served by this host against the destination
// repository, so the superproject keeps working behind any host name.
func submoduleURL(destRepo, remoteURL string, reader repositories.RemoteReader) string {
	if !reader.IsLocallyHosted(remoteURL) {
		return remoteURL
	}
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return remoteURL
	}
	return entities.Relativize(destRepo+"/", strings.TrimLeft(parsed.Path, "/"))
}
