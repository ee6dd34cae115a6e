package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// SyncController handles the "sync" subcommand: a manual update of one ref.
type SyncController struct {
	reload  commands.Reload
	trigger commands.Trigger
}

// NewSyncController creates a new SyncController.
func NewSyncController(reload commands.Reload, trigger commands.Trigger) *SyncController {
	return &SyncController{reload: reload, trigger: trigger}
}

// GetBind returns the Cobra command metadata for the sync controller.
func (it *SyncController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync <repository> <ref>",
		Short: "Update the superprojects fed by a manifest ref",
		Long: `Run every rule fired by <ref> of <repository> as if the ref had
just been updated. The first failing rule stops the run.`,
	}
}

// Execute runs the manual update.
func (it *SyncController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	if len(args) != 2 { //nolint:mnd // repository and ref
		logger.Errorf("usage: %s", it.GetBind().Use)
		return
	}

	if _, err := it.reload.Execute(ctx); err != nil {
		logger.Errorf("Failed to load rules: %v", err)
		return
	}

	results, err := it.trigger.Execute(ctx, entities.TriggerEvent{
		Repository: args[0],
		RefName:    args[1],
		Manual:     true,
	})
	for _, result := range results {
		renderResult(cmd.OutOrStdout(), result)
	}
	if err != nil {
		logger.Errorf("Sync failed (%s): %v", entities.KindOf(err), err)
		return
	}
	if len(results) == 0 {
		logger.Infof("No rule fired for %s:%s", args[0], args[1])
	}
}
