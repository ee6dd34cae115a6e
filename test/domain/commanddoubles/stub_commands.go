//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// StubSyncCommand is a stub implementation of commands.Sync. Errors are
// looked up by destination repository.
type StubSyncCommand struct {
	Errors map[string]error
	Calls  []SyncCall
}

// SyncCall records a single invocation of Execute.
type SyncCall struct {
	Rule          *entities.MappingRule
	TriggeringRef string
}

var _ commands.Sync = (*StubSyncCommand)(nil)

func (s *StubSyncCommand) Execute(
	_ context.Context,
	rule *entities.MappingRule,
	triggeringRef string,
) (*entities.SyncResult, error) {
	s.Calls = append(s.Calls, SyncCall{Rule: rule, TriggeringRef: triggeringRef})
	if err := s.Errors[rule.DestRepo()]; err != nil {
		return nil, err
	}
	return &entities.SyncResult{
		DestRepo:  rule.DestRepo(),
		TargetRef: entities.HeadsPrefix + rule.ActualDestBranch(triggeringRef),
		Outcome:   entities.RefFastForward,
	}, nil
}

// StubReloadCommand is a stub implementation of commands.Reload that
// publishes Set into Holder when one is given.
type StubReloadCommand struct {
	Set              *entities.RuleSet
	Holder           *entities.RuleSetHolder
	ExecuteErr       error
	ExecuteCallCount int
}

var _ commands.Reload = (*StubReloadCommand)(nil)

func (s *StubReloadCommand) Execute(_ context.Context) (*entities.RuleSet, error) {
	s.ExecuteCallCount++
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Holder != nil {
		s.Holder.Store(s.Set)
	}
	return s.Set, nil
}

// StubTriggerCommand is a stub implementation of commands.Trigger.
type StubTriggerCommand struct {
	Results    []*entities.SyncResult
	ExecuteErr error
	Events     []entities.TriggerEvent
}

var _ commands.Trigger = (*StubTriggerCommand)(nil)

func (s *StubTriggerCommand) Execute(
	_ context.Context,
	event entities.TriggerEvent,
) ([]*entities.SyncResult, error) {
	s.Events = append(s.Events, event)
	return s.Results, s.ExecuteErr
}

// StubInspectCommand is a stub implementation of commands.Inspect.
type StubInspectCommand struct {
	Reports []entities.TriggerReport
	Calls   [][2]string
}

var _ commands.Inspect = (*StubInspectCommand)(nil)

func (s *StubInspectCommand) Execute(repo, refName string) []entities.TriggerReport {
	s.Calls = append(s.Calls, [2]string{repo, refName})
	return s.Reports
}

// StubWatchCommand is a stub implementation of commands.Watch.
type StubWatchCommand struct {
	ExecuteErr error
	LastOpts   commands.WatchOptions
	CallCount  int
}

var _ commands.Watch = (*StubWatchCommand)(nil)

func (s *StubWatchCommand) Execute(_ context.Context, opts commands.WatchOptions) error {
	s.CallCount++
	s.LastOpts = opts
	return s.ExecuteErr
}
