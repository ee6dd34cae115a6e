package repositories

import (
	"context"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// UpdaterRepository rewrites a superproject for one manifest format. Each
// implementation owns the full cycle from reading the manifest to moving the
// destination branch.
type UpdaterRepository interface {
	// Kind returns the manifest format handled by the updater.
	Kind() entities.ToolKind

	// Update synchronizes trigger's destination with the manifest at
	// trigger.Rule's source, read at srcRef. Repositories are opened through
	// session.
	Update(
		ctx context.Context,
		session RepositorySession,
		trigger entities.Trigger,
		srcRef string,
	) (*entities.SyncResult, error)
}
