package repositories

import (
	"sort"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	domainRepos "github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// UpdaterRegistry maps each manifest format to its updater.
type UpdaterRegistry struct {
	updaters map[entities.ToolKind]domainRepos.UpdaterRepository
}

// NewUpdaterRegistry creates an empty updater registry.
func NewUpdaterRegistry() *UpdaterRegistry {
	return &UpdaterRegistry{
		updaters: make(map[entities.ToolKind]domainRepos.UpdaterRepository),
	}
}

// Register adds an updater under its kind, replacing any previous one.
func (r *UpdaterRegistry) Register(u domainRepos.UpdaterRepository) {
	r.updaters[u.Kind()] = u
}

// Get returns the updater for kind, or nil if none is registered.
func (r *UpdaterRegistry) Get(kind entities.ToolKind) domainRepos.UpdaterRepository {
	return r.updaters[kind]
}

// Kinds returns the registered kinds in a stable order.
func (r *UpdaterRegistry) Kinds() []entities.ToolKind {
	kinds := make([]entities.ToolKind, 0, len(r.updaters))
	for kind := range r.updaters {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
