package internal

import (
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// AppInternal holds every controller exposed as a subcommand.
type AppInternal struct {
	controllers []entities.Controller
	settings    *entities.SettingsHolder
}

// NewAppInternal creates the application from its controllers.
func NewAppInternal(controllers *[]entities.Controller, settings *entities.SettingsHolder) *AppInternal {
	return &AppInternal{controllers: *controllers, settings: settings}
}

// GetControllers returns the controllers in registration order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}

// GetSettings returns the holder the CLI publishes the loaded settings to.
func (it *AppInternal) GetSettings() *entities.SettingsHolder {
	return it.settings
}
