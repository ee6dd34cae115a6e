package legacy

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// StampPath is where the legacy tool records which manifest produced the
// superproject.
const StampPath = ".supermanifest"

// Request is everything the repo manifest tool needs to rewrite a
// superproject.
type Request struct {
	Manifest              []byte
	Source                entities.ManifestRef
	SourceCommit          entities.ObjectID
	DestRepo              string
	TargetRef             string
	BaseURI               string
	Groups                string
	RecordRemoteBranch    bool
	RecordSubmoduleLabels bool
	IgnoreRemoteFailures  bool
	Stamp                 string
	Identity              entities.IdentityConfig
}

// RepoTool runs the "repo" manifest tool. It is provided by the host.
type RepoTool interface {
	Run(ctx context.Context, session repositories.RepositorySession, request Request) (*entities.SyncResult, error)
}

// UnavailableRepoTool is the RepoTool used when the host ships none.
type UnavailableRepoTool struct{}

func (UnavailableRepoTool) Run(
	_ context.Context,
	_ repositories.RepositorySession,
	request Request,
) (*entities.SyncResult, error) {
	return nil, entities.NewConfigurationError(
		"repo tool unavailable: cannot update %s:%s from %s", request.DestRepo, request.TargetRef, request.Source)
}

// UpdaterRepository implements repositories.UpdaterRepository for legacy
// ("repo") manifests by delegating to a RepoTool.
type UpdaterRepository struct {
	settings *entities.SettingsHolder
	tool     RepoTool
}

var _ repositories.UpdaterRepository = (*UpdaterRepository)(nil)

// NewUpdaterRepository creates the legacy updater on top of tool.
func NewUpdaterRepository(settings *entities.SettingsHolder, tool RepoTool) *UpdaterRepository {
	return &UpdaterRepository{settings: settings, tool: tool}
}

func (u *UpdaterRepository) Kind() entities.ToolKind { return entities.ToolLegacy }

func (u *UpdaterRepository) Update(
	ctx context.Context,
	session repositories.RepositorySession,
	trigger entities.Trigger,
	srcRef string,
) (*entities.SyncResult, error) {
	rule := trigger.Rule
	settings, err := u.settings.Load()
	if err != nil {
		return nil, entities.NewInternalError(err, "settings are not loaded")
	}

	source := entities.ManifestRef{Repo: rule.SourceRepo(), Ref: srcRef, Path: rule.ManifestPath()}
	repo, err := session.Open(source.Repo)
	if err != nil {
		return nil, entities.NewResolutionError(err, "cannot open repository %s", source.Repo)
	}
	commit, err := repo.ResolveRef(srcRef)
	if err != nil {
		return nil, entities.NewResolutionError(err, "cannot resolve %s in %s", srcRef, source.Repo)
	}
	manifest, err := repo.ReadBlob(source.BlobSpec())
	if err != nil {
		return nil, entities.NewResolutionError(err, "cannot read manifest %s", source)
	}

	request := Request{
		Manifest:              manifest,
		Source:                source,
		SourceCommit:          commit,
		DestRepo:              rule.DestRepo(),
		TargetRef:             trigger.TargetRef(),
		BaseURI:               baseURI(source.Repo),
		Groups:                rule.GroupsFilter(),
		RecordRemoteBranch:    rule.RecordRemoteBranch(),
		RecordSubmoduleLabels: rule.RecordSubmoduleLabels(),
		IgnoreRemoteFailures:  rule.IgnoreRemoteFailures(),
		Stamp:                 stamp(source, commit),
		Identity:              settings.Identity,
	}

	logger.Infof("[legacy] Running repo tool for %s => %s", source, trigger.Key())
	return u.tool.Run(ctx, session, request)
}

// baseURI is the directory of the manifest repository; relative project
// names in a repo manifest are resolved against it.
func baseURI(repo string) string {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[:i+1]
	}
	return ""
}

func stamp(source entities.ManifestRef, commit entities.ObjectID) string {
	return source.Repo + " " + source.Ref + " " + commit.String() + "\n"
}
