package commands

import (
	"context"
	"errors"
	"sort"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// Watch is the interface for the polling event source.
type Watch interface {
	Execute(ctx context.Context, opts WatchOptions) error
}

// WatchOptions holds runtime options for one watch run.
type WatchOptions struct {
	Interval time.Duration // overrides watch.interval when positive
	Once     bool          // poll a single time and fire every current branch
}

// tips holds the last seen commit per repository and ref.
type tips map[string]map[string]entities.ObjectID

// WatchCommand polls the source repositories of the rules in effect and
// turns every moved branch into a trigger event.
type WatchCommand struct {
	settings *entities.SettingsHolder
	holder   *entities.RuleSetHolder
	store    repositories.RepositoryStore
	reload   Reload
	trigger  Trigger
}

// NewWatchCommand creates a new WatchCommand.
func NewWatchCommand(
	settings *entities.SettingsHolder,
	holder *entities.RuleSetHolder,
	store repositories.RepositoryStore,
	reload Reload,
	trigger Trigger,
) *WatchCommand {
	return &WatchCommand{settings: settings, holder: holder, store: store, reload: reload, trigger: trigger}
}

// Execute loads the rules and polls until ctx is done. The first poll only
// records the branch tips unless opts.Once asks for a single full pass.
func (it *WatchCommand) Execute(ctx context.Context, opts WatchOptions) error {
	settings, err := it.settings.Load()
	if err != nil {
		return err
	}
	if _, err = it.reload.Execute(ctx); err != nil {
		return err
	}

	if opts.Once {
		it.fire(ctx, it.poll(settings), tips{})
		return nil
	}

	interval := settings.Watch.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}
	logger.Infof("Watching %d source repositories every %s", len(it.holder.Load().SourceRepos()), interval)

	seen := it.poll(settings)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case <-ticker.C:
			current := it.poll(settings)
			it.fire(ctx, current, seen)
			seen = current
		}
	}
}

// poll reads the branch tips of every source repository, plus the rule
// document ref when the rules live in the store.
func (it *WatchCommand) poll(settings *entities.Settings) tips {
	current := make(tips)
	session, err := it.store.NewSession()
	if err != nil {
		logger.Errorf("Failed to open repositories: %v", err)
		return current
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warnf("Failed to release repositories: %v", closeErr)
		}
	}()

	for _, name := range it.holder.Load().SourceRepos() {
		repo, openErr := session.Open(name)
		if openErr != nil {
			logger.Warnf("Cannot poll %s: %v", name, openErr)
			continue
		}
		branches, listErr := repo.ListBranches()
		if listErr != nil {
			logger.Warnf("Cannot list branches of %s: %v", name, listErr)
			continue
		}
		current[name] = branches
	}

	if rules := settings.Rules; rules.FromRepository() {
		if repo, openErr := session.Open(rules.Repository); openErr == nil {
			if id, resolveErr := repo.ResolveRef(rules.Ref); resolveErr == nil {
				if current[rules.Repository] == nil {
					current[rules.Repository] = make(map[string]entities.ObjectID)
				}
				current[rules.Repository][rules.Ref] = id
			} else if !errors.Is(resolveErr, repositories.ErrRefNotFound) {
				logger.Warnf("Cannot read %s: %v", rules, resolveErr)
			}
		}
	}
	return current
}

// fire sends a trigger event for every ref of current that is new or moved
// compared to previous. Rule document changes go first so the events after
// them see the new rules.
func (it *WatchCommand) fire(ctx context.Context, current, previous tips) {
	settings, err := it.settings.Load()
	if err != nil {
		logger.Errorf("Settings unavailable: %v", err)
		return
	}

	var events []entities.TriggerEvent
	for _, repo := range sortedKeys(current) {
		for _, ref := range sortedKeys(current[repo]) {
			if old, ok := previous[repo][ref]; ok && old == current[repo][ref] {
				continue
			}
			events = append(events, entities.TriggerEvent{Repository: repo, RefName: ref})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return settings.Rules.IsSourceEvent(events[i].Repository, events[i].RefName) &&
			!settings.Rules.IsSourceEvent(events[j].Repository, events[j].RefName)
	})

	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		logger.Debugf("%s:%s moved", event.Repository, event.RefName)
		if _, triggerErr := it.trigger.Execute(ctx, event); triggerErr != nil {
			logger.Warnf("Event %s:%s finished with errors", event.Repository, event.RefName)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
