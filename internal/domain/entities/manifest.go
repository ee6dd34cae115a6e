package entities

import (
	"fmt"
	"strings"
)

// ManifestDocument is one parsed graph manifest file.
type ManifestDocument struct {
	Imports      []ManifestImport
	LocalImports []LocalImport
	Projects     []ManifestProject
}

// ManifestImport pulls a manifest from another repository.
type ManifestImport struct {
	Manifest     string // path of the manifest inside the imported repository
	Name         string
	Remote       string // URL of the imported repository
	Revision     string // pins the import when set
	RemoteBranch string
}

// Key identifies the project an import refers to, so the project can be
// pinned to the imported revision.
func (i ManifestImport) Key() ProjectKey {
	return NewProjectKey(i.Name, strings.Trim(i.Remote, "/"))
}

// Branch is the remote branch, defaulting to master.
func (i ManifestImport) Branch() string {
	if i.RemoteBranch == "" {
		return DefaultRemoteBranch
	}
	return i.RemoteBranch
}

// LocalImport pulls a sibling manifest file from the same repository and ref.
type LocalImport struct {
	File string
}

// ManifestProject is a sub-repository as declared in a manifest.
type ManifestProject struct {
	Name         string
	Path         string
	Remote       string
	Revision     string
	RemoteBranch string
	HistoryDepth int
}

// Resolved applies field defaults and returns the project as it enters the
// resolved set.
func (p ManifestProject) Resolved() ResolvedProject {
	branch := p.RemoteBranch
	if branch == "" {
		branch = DefaultRemoteBranch
	}
	return ResolvedProject{
		Name:         p.Name,
		Path:         p.Path,
		RemoteURL:    p.Remote,
		Revision:     p.Revision,
		RemoteBranch: branch,
		HistoryDepth: p.HistoryDepth,
	}
}

// ProjectKey identifies a project across a manifest graph: "<name>=<remote>".
type ProjectKey string

// NewProjectKey builds the key of the project name hosted at remote.
func NewProjectKey(name, remote string) ProjectKey {
	return ProjectKey(name + "=" + remote)
}

// ResolvedProject is a sub-repository after manifest graph resolution.
type ResolvedProject struct {
	Name         string
	Path         string
	RemoteURL    string
	Revision     string
	RemoteBranch string
	HistoryDepth int
}

// Key returns the project identity.
func (p ResolvedProject) Key() ProjectKey {
	return NewProjectKey(p.Name, p.RemoteURL)
}

// Ref is what the submodule points at: the revision when one is pinned,
// otherwise the remote branch.
func (p ResolvedProject) Ref() string {
	if p.Revision != "" {
		return p.Revision
	}
	return p.RemoteBranch
}

// Equivalent reports whether two declarations of the same project agree. An
// empty remote branch is the same as master.
func (p ResolvedProject) Equivalent(other ResolvedProject) bool {
	return p.Name == other.Name &&
		p.Path == other.Path &&
		p.RemoteURL == other.RemoteURL &&
		p.Revision == other.Revision &&
		sameBranch(p.RemoteBranch, other.RemoteBranch)
}

func sameBranch(a, b string) bool {
	if a == "" {
		a = DefaultRemoteBranch
	}
	if b == "" {
		b = DefaultRemoteBranch
	}
	return a == b
}

func (p ResolvedProject) String() string {
	return fmt.Sprintf(
		"project:\n\tname: %s\n\tpath: %s\n\tremote: %s\n\tremotebranch: %s\n\trevision: %s",
		p.Name, p.Path, p.RemoteURL, p.RemoteBranch, p.Revision,
	)
}

// ManifestRef locates a manifest file: repository, ref and path.
type ManifestRef struct {
	Repo string
	Ref  string
	Path string
}

// BlobSpec renders the "<ref>:<path>" form understood by GitRepository.ReadBlob.
func (m ManifestRef) BlobSpec() string {
	return m.Ref + ":" + m.Path
}

func (m ManifestRef) String() string {
	return m.Repo + ":" + m.BlobSpec()
}
