package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	for _, constructor := range []any{
		NewSyncCommand,
		NewReloadCommand,
		NewInspectCommand,
		NewTriggerCommand,
		NewWatchCommand,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *SyncCommand) Sync { return impl }); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ReloadCommand) Reload { return impl }); err != nil {
		return err
	}
	if err := container.Provide(func(impl *InspectCommand) Inspect { return impl }); err != nil {
		return err
	}
	if err := container.Provide(func(impl *TriggerCommand) Trigger { return impl }); err != nil {
		return err
	}
	if err := container.Provide(func(impl *WatchCommand) Watch { return impl }); err != nil {
		return err
	}

	return nil
}
