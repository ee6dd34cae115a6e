package graph

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// UpdaterRepository implements repositories.UpdaterRepository for graph
// ("jiri") manifests.
type UpdaterRepository struct {
	settings *entities.SettingsHolder
	resolver *Resolver
}

var _ repositories.UpdaterRepository = (*UpdaterRepository)(nil)

// NewUpdaterRepository creates the graph manifest updater.
func NewUpdaterRepository(settings *entities.SettingsHolder) *UpdaterRepository {
	return &UpdaterRepository{settings: settings, resolver: NewResolver()}
}

func (u *UpdaterRepository) Kind() entities.ToolKind { return entities.ToolGraph }

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

	dest, err := session.Open(rule.DestRepo())
	if err != nil {
		return nil, entities.NewResolutionError(err, "cannot open destination %s", rule.DestRepo())
	}

	root := entities.ManifestRef{Repo: rule.SourceRepo(), Ref: srcRef, Path: rule.ManifestPath()}
	logger.Infof("[graph] Resolving %s for %s", root, trigger.Key())
	projects, err := u.resolver.Resolve(ctx, session, root)
	if err != nil {
		return nil, err
	}
	logger.Debugf("[graph] Resolved %d projects from %s", len(projects), root)

	synthesizer := NewSynthesizer(settings.Identity, settings.CommitMessage)
	return synthesizer.Synthesize(ctx, dest, trigger.TargetRef(), projects, session)
}
