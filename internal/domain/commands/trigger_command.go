package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// Trigger is the interface for reacting to a ref update.
type Trigger interface {
	Execute(ctx context.Context, event entities.TriggerEvent) ([]*entities.SyncResult, error)
}

// TriggerCommand routes a ref update: a change of the rule document reloads
// the rules, any other change synchronizes every rule it fires.
type TriggerCommand struct {
	settings *entities.SettingsHolder
	holder   *entities.RuleSetHolder
	reload   Reload
	sync     Sync
}

// NewTriggerCommand creates a new TriggerCommand.
func NewTriggerCommand(
	settings *entities.SettingsHolder,
	holder *entities.RuleSetHolder,
	reload Reload,
	sync Sync,
) *TriggerCommand {
	return &TriggerCommand{settings: settings, holder: holder, reload: reload, sync: sync}
}

// Execute handles event. A manual event stops at the first failure and
// returns it. Other events log failures, carry on with the remaining rules
// and return the failures joined.
func (it *TriggerCommand) Execute(
	ctx context.Context,
	event entities.TriggerEvent,
) ([]*entities.SyncResult, error) {
	settings, err := it.settings.Load()
	if err != nil {
		return nil, err
	}

	if settings.Rules.IsSourceEvent(event.Repository, event.RefName) {
		logger.Infof("Rule document changed in %s:%s, reloading", event.Repository, event.RefName)
		_, err = it.reload.Execute(ctx)
		return nil, err
	}

	triggers, err := it.holder.Load().Match(event.Repository, event.RefName)
	if err != nil {
		logger.Errorf("Refusing update of %s:%s: %v", event.Repository, event.RefName, err)
		return nil, err
	}
	if len(triggers) == 0 {
		logger.Debugf("No rule for %s:%s", event.Repository, event.RefName)
		return nil, nil
	}

	var results []*entities.SyncResult
	var failures []error
	for _, trigger := range triggers {
		result, syncErr := it.sync.Execute(ctx, trigger.Rule, event.RefName)
		if syncErr != nil {
			if event.Manual {
				return results, syncErr
			}
			logger.Errorf("Update of %s failed (%s): %v", trigger.Key(), entities.KindOf(syncErr), syncErr)
			failures = append(failures, syncErr)
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(failures...)
}
