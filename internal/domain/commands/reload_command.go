package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// Reload is the interface for rebuilding the rules in effect.
type Reload interface {
	Execute(ctx context.Context) (*entities.RuleSet, error)
}

// ReloadCommand reads the rule document and publishes a new RuleSet. Invalid
// entries are logged and left out; the previous set stays in effect only
// when the document cannot be read at all.
type ReloadCommand struct {
	rules  repositories.RuleRepository
	holder *entities.RuleSetHolder
}

// NewReloadCommand creates a new ReloadCommand.
func NewReloadCommand(rules repositories.RuleRepository, holder *entities.RuleSetHolder) *ReloadCommand {
	return &ReloadCommand{rules: rules, holder: holder}
}

func (it *ReloadCommand) Execute(ctx context.Context) (*entities.RuleSet, error) {
	rules, invalid, err := it.rules.LoadRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	for _, ruleErr := range invalid {
		logger.Errorf("Invalid rule: %v", ruleErr)
	}

	set, conflicts := entities.NewRuleSet(rules)
	for _, conflict := range conflicts {
		logger.Errorf("Rejected rule: %v", conflict)
	}

	it.holder.Store(set)
	logger.Infof("Loaded %d rules", set.Len())
	logger.Debug(set.String())
	return set, nil
}
