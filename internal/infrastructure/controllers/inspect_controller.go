package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// InspectController handles the "inspect" subcommand.
type InspectController struct {
	reload  commands.Reload
	inspect commands.Inspect
}

// NewInspectController creates a new InspectController.
func NewInspectController(reload commands.Reload, inspect commands.Inspect) *InspectController {
	return &InspectController{reload: reload, inspect: inspect}
}

// GetBind returns the Cobra command metadata for the inspect controller.
func (it *InspectController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "inspect <repository> <ref>",
		Short: "Show which rules an update of a ref would fire",
		Long: `Match <ref> of <repository> against the rules without writing
anything. Rules colliding on a destination branch are listed as SKIP.`,
	}
}

// Execute prints the matching report.
func (it *InspectController) Execute(cmd *cobra.Command, args []string) {
	if len(args) != 2 { //nolint:mnd // repository and ref
		logger.Errorf("usage: %s", it.GetBind().Use)
		return
	}
	if _, err := it.reload.Execute(context.Background()); err != nil {
		logger.Errorf("Failed to load rules: %v", err)
		return
	}

	reports := it.inspect.Execute(args[0], args[1])
	for _, report := range reports {
		logger.Debug(report.String())
	}
	renderReports(cmd.OutOrStdout(), reports)
}
