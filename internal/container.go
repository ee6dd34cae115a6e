package internal

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/controllers"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/repositories"
)

// RegisterProviders registers every layer and the AppInternal with the DIG
// container. Entities come first since the settings and rule set holders are
// shared by all other layers.
func RegisterProviders(container *dig.Container) error {
	for _, register := range []func(*dig.Container) error{
		entities.RegisterProviders,
		repositories.RegisterProviders,
		commands.RegisterProviders,
		controllers.RegisterProviders,
	} {
		if err := register(container); err != nil {
			return err
		}
	}

	return container.Provide(NewAppInternal)
}
