package controllers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// WatchController handles the "watch" subcommand.
type WatchController struct {
	command commands.Watch
}

// NewWatchController creates a new WatchController.
func NewWatchController(command commands.Watch) *WatchController {
	return &WatchController{command: command}
}

// GetBind returns the Cobra command metadata for the watch controller.
func (it *WatchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "watch",
		Short: "Poll manifest repositories and update superprojects",
		Long: `Poll the source repositories of every rule and update the
superprojects whenever a tracked branch moves. Changes of the rule
document reload the rules.

This is the main command intended to run as a service.`,
	}
}

// Execute polls until interrupted.
func (it *WatchController) Execute(cmd *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval, _ := cmd.Flags().GetDuration("interval")
	once, _ := cmd.Flags().GetBool("once")

	if err := it.command.Execute(ctx, commands.WatchOptions{Interval: interval, Once: once}); err != nil {
		logger.Errorf("Watch failed: %v", err)
	}
}

// AddFlags adds the watch-specific flags to the given Cobra command.
func (it *WatchController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("interval", 0, "Polling interval (default: watch.interval from the config)")
	cmd.Flags().Bool("once", false, "Poll once, updating every tracked branch, then exit")
}
