package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	domainRepos "github.com/rios0rios0/supermanifest/internal/domain/repositories"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/gitstore"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/graph"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/legacy"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories/rules"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Bare repositories on disk, below repositories.root
	if err := container.Provide(func(settings *entities.SettingsHolder) gitstore.Backend {
		return gitstore.NewFilesystemBackend(settings)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(
		settings *entities.SettingsHolder,
		backend gitstore.Backend,
	) domainRepos.RepositoryStore {
		return gitstore.NewGitRepositoryStore(settings, backend)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(
		settings *entities.SettingsHolder,
		store domainRepos.RepositoryStore,
	) domainRepos.RuleRepository {
		return rules.NewConfigRuleRepository(settings, store)
	}); err != nil {
		return err
	}

	// Register updater registry with one updater per manifest format
	if err := container.Provide(func(settings *entities.SettingsHolder) *UpdaterRegistry {
		reg := NewUpdaterRegistry()
		reg.Register(legacy.NewUpdaterRepository(settings, legacy.UnavailableRepoTool{}))
		reg.Register(graph.NewUpdaterRepository(settings))
		return reg
	}); err != nil {
		return err
	}

	return nil
}
