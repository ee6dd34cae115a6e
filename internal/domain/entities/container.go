package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Settings are read once the CLI flags are parsed, so they are published
	// through a holder rather than provided directly.
	if err := container.Provide(NewSettingsHolder); err != nil {
		return err
	}
	if err := container.Provide(NewRuleSetHolder); err != nil {
		return err
	}
	return nil
}
