//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// SpyUpdaterRepository implements repositories.UpdaterRepository as a configurable spy.
type SpyUpdaterRepository struct {
	// --- identity ---
	ToolKind entities.ToolKind

	// --- Update ---
	Result      *entities.SyncResult
	UpdateErr   error
	UpdateCalls []UpdateCall
}

// UpdateCall records a single invocation of Update.
type UpdateCall struct {
	Session repositories.RepositorySession
	Trigger entities.Trigger
	SrcRef  string
}

var _ repositories.UpdaterRepository = (*SpyUpdaterRepository)(nil)

func (u *SpyUpdaterRepository) Kind() entities.ToolKind { return u.ToolKind }

func (u *SpyUpdaterRepository) Update(
	_ context.Context,
	session repositories.RepositorySession,
	trigger entities.Trigger,
	srcRef string,
) (*entities.SyncResult, error) {
	u.UpdateCalls = append(u.UpdateCalls, UpdateCall{Session: session, Trigger: trigger, SrcRef: srcRef})
	if u.UpdateErr != nil {
		return nil, u.UpdateErr
	}
	if u.Result != nil {
		return u.Result, nil
	}
	return &entities.SyncResult{DestRepo: trigger.Rule.DestRepo(), TargetRef: trigger.TargetRef()}, nil
}
