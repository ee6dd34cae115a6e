//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/controllers"
	"github.com/rios0rios0/supermanifest/test/domain/commanddoubles"
	"github.com/rios0rios0/supermanifest/test/domain/entitybuilders"
)

func newCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(out)
	return cmd, out
}

func ruleSet(t *testing.T, rules ...*entities.MappingRule) *entities.RuleSet {
	t.Helper()
	set, conflicts := entities.NewRuleSet(rules)
	require.Empty(t, conflicts)
	return set
}

func TestSyncController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should send a manual event and print the results", func(t *testing.T) {
		t.Parallel()

		// given
		reload := &commanddoubles.StubReloadCommand{}
		trigger := &commanddoubles.StubTriggerCommand{Results: []*entities.SyncResult{{
			DestRepo:  "superproject",
			TargetRef: "refs/heads/main",
			Outcome:   entities.RefFastForward,
			Submodules: []entities.SubmoduleEntry{{
				Path: "path1", URL: "../project1", Branch: "master",
				Commit: plumbing.NewHash("1111111111111111111111111111111111111111"),
			}},
		}}}
		controller := controllers.NewSyncController(reload, trigger)
		cmd, out := newCommand()

		// when
		controller.Execute(cmd, []string{"manifest", "refs/heads/main"})

		// then
		assert.Equal(t, 1, reload.ExecuteCallCount)
		assert.Equal(t, []entities.TriggerEvent{
			{Repository: "manifest", RefName: "refs/heads/main", Manual: true},
		}, trigger.Events)
		assert.Contains(t, out.String(), "path1")
		assert.Contains(t, out.String(), "../project1")
	})

	t.Run("should not trigger when the rules cannot be loaded", func(t *testing.T) {
		t.Parallel()

		// given
		reload := &commanddoubles.StubReloadCommand{ExecuteErr: errors.New("unreadable")}
		trigger := &commanddoubles.StubTriggerCommand{}
		controller := controllers.NewSyncController(reload, trigger)
		cmd, _ := newCommand()

		// when
		controller.Execute(cmd, []string{"manifest", "refs/heads/main"})

		// then
		assert.Empty(t, trigger.Events)
	})

	t.Run("should ignore a wrong number of arguments", func(t *testing.T) {
		t.Parallel()

		// given
		reload := &commanddoubles.StubReloadCommand{}
		controller := controllers.NewSyncController(reload, &commanddoubles.StubTriggerCommand{})
		cmd, _ := newCommand()

		// when
		controller.Execute(cmd, []string{"manifest"})

		// then
		assert.Zero(t, reload.ExecuteCallCount)
	})
}

func TestInspectController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should print the report of each fired rule", func(t *testing.T) {
		t.Parallel()

		// given
		rule := entitybuilders.NewRuleBuilder().BuildRule()
		inspect := &commanddoubles.StubInspectCommand{Reports: []entities.TriggerReport{{
			Decision: entities.DecisionMatch,
			Trigger:  entities.Trigger{Rule: rule, DestBranch: "main"},
		}}}
		controller := controllers.NewInspectController(&commanddoubles.StubReloadCommand{}, inspect)
		cmd, out := newCommand()

		// when
		controller.Execute(cmd, []string{"manifest", "refs/heads/main"})

		// then
		assert.Equal(t, [][2]string{{"manifest", "refs/heads/main"}}, inspect.Calls)
		assert.Contains(t, out.String(), "MATCH")
		assert.Contains(t, out.String(), "superproject")
	})
}

func TestRulesController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should list the rules in effect", func(t *testing.T) {
		t.Parallel()

		// given
		rule := entitybuilders.NewRuleBuilder().WithExclude("refs/heads/old").BuildRule()
		reload := &commanddoubles.StubReloadCommand{Set: ruleSet(t, rule)}
		controller := controllers.NewRulesController(reload)
		cmd, out := newCommand()

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Contains(t, out.String(), rule.Source())
		assert.Contains(t, out.String(), rule.Destination())
		assert.Contains(t, out.String(), "refs/heads/old")
	})
}

func TestWatchController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the flags to the watch command", func(t *testing.T) {
		t.Parallel()

		// given
		watch := &commanddoubles.StubWatchCommand{}
		controller := controllers.NewWatchController(watch)
		cmd, _ := newCommand()
		controller.AddFlags(cmd)
		require.NoError(t, cmd.Flags().Set("interval", "5s"))
		require.NoError(t, cmd.Flags().Set("once", "true"))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 1, watch.CallCount)
		assert.Equal(t, 5*time.Second, watch.LastOpts.Interval)
		assert.True(t, watch.LastOpts.Once)
	})
}
