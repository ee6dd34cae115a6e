package main

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/supermanifest/internal"
)

// injectAppContext wires every layer and resolves the application.
func injectAppContext() (*internal.AppInternal, error) {
	container := dig.New()
	if err := internal.RegisterProviders(container); err != nil {
		return nil, fmt.Errorf("failed to register providers: %w", err)
	}

	var app *internal.AppInternal
	if err := container.Invoke(func(resolved *internal.AppInternal) {
		app = resolved
	}); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", dig.RootCause(err))
	}
	return app, nil
}
