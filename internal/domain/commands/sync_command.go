package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/supermanifest/internal/infrastructure/repositories"
)

// Sync is the interface for synchronizing one rule.
type Sync interface {
	Execute(ctx context.Context, rule *entities.MappingRule, triggeringRef string) (*entities.SyncResult, error)
}

// SyncCommand rewrites the destination of a rule from the manifest found at
// the triggering ref. Every error it returns is an *entities.SyncError.
type SyncCommand struct {
	store    repositories.RepositoryStore
	updaters *infraRepos.UpdaterRegistry
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(store repositories.RepositoryStore, updaters *infraRepos.UpdaterRegistry) *SyncCommand {
	return &SyncCommand{store: store, updaters: updaters}
}

func (it *SyncCommand) Execute(
	ctx context.Context,
	rule *entities.MappingRule,
	triggeringRef string,
) (*entities.SyncResult, error) {
	updater := it.updaters.Get(rule.ToolKind())
	if updater == nil {
		return nil, entities.NewConfigurationError("no updater for %s manifests (%s)", rule.ToolKind(), rule)
	}

	session, err := it.store.NewSession()
	if err != nil {
		return nil, entities.NewInternalError(err, "cannot open repositories for %s", rule)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warnf("Failed to release repositories after %s: %v", rule, closeErr)
		}
	}()

	trigger := entities.Trigger{Rule: rule, DestBranch: rule.ActualDestBranch(triggeringRef)}
	logger.Infof("Updating %s for %s", trigger.Key(), triggeringRef)

	result, err := updater.Update(ctx, session, trigger, triggeringRef)
	if err != nil {
		var syncErr *entities.SyncError
		if !errors.As(err, &syncErr) {
			err = entities.NewInternalError(err, "update of %s failed", trigger.Key())
		}
		return nil, err
	}
	return result, nil
}
