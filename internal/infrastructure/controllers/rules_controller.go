package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// RulesController handles the "rules" subcommand.
type RulesController struct {
	reload commands.Reload
}

// NewRulesController creates a new RulesController.
func NewRulesController(reload commands.Reload) *RulesController {
	return &RulesController{reload: reload}
}

// GetBind returns the Cobra command metadata for the rules controller.
func (it *RulesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "rules",
		Short: "List the mapping rules in effect",
		Long: `Read the rule document and list every rule that passed validation.
Rejected entries are reported in the log.`,
	}
}

// Execute prints the rules table.
func (it *RulesController) Execute(cmd *cobra.Command, _ []string) {
	set, err := it.reload.Execute(context.Background())
	if err != nil {
		logger.Errorf("Failed to load rules: %v", err)
		return
	}
	renderRules(cmd.OutOrStdout(), set)
}
