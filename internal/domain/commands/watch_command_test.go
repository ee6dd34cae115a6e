//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/commands"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/test/domain/commanddoubles"
	"github.com/rios0rios0/supermanifest/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/supermanifest/test/infrastructure/repositorydoubles"
)

func watchFixture(t *testing.T) (*doubles.GitFixture, *commanddoubles.StubReloadCommand, *entities.RuleSetHolder) {
	t.Helper()
	fixture := doubles.NewGitFixture()
	fixture.Commit(t, "manifest", "refs/heads/main", map[string]string{"default.xml": "<manifest/>"})
	fixture.Commit(t, "manifest", "refs/heads/dev", map[string]string{"default.xml": "<manifest/>"})
	fixture.Commit(t, "All-Projects", "refs/meta/config", map[string]string{"supermanifest.config": ""})

	set, conflicts := entities.NewRuleSet([]*entities.MappingRule{entitybuilders.NewRuleBuilder().BuildRule()})
	require.Empty(t, conflicts)
	holder := entities.NewRuleSetHolder()
	reload := &commanddoubles.StubReloadCommand{Set: set, Holder: holder}
	return fixture, reload, holder
}

func TestWatchCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should fire every current branch once", func(t *testing.T) {
		t.Parallel()

		// given
		fixture, reload, holder := watchFixture(t)
		trigger := &commanddoubles.StubTriggerCommand{}
		command := commands.NewWatchCommand(fixture.Settings, holder, fixture.Store(), reload, trigger)

		// when
		err := command.Execute(context.Background(), commands.WatchOptions{Once: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, reload.ExecuteCallCount)
		assert.Equal(t, []entities.TriggerEvent{
			{Repository: "All-Projects", RefName: "refs/meta/config"},
			{Repository: "manifest", RefName: "refs/heads/dev"},
			{Repository: "manifest", RefName: "refs/heads/main"},
		}, trigger.Events)
	})

	t.Run("should not fire the branches seen on the first poll", func(t *testing.T) {
		t.Parallel()

		// given
		fixture, reload, holder := watchFixture(t)
		trigger := &commanddoubles.StubTriggerCommand{}
		command := commands.NewWatchCommand(fixture.Settings, holder, fixture.Store(), reload, trigger)
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		// when
		err := command.Execute(ctx, commands.WatchOptions{Interval: 10 * time.Millisecond})

		// then
		require.NoError(t, err)
		assert.Empty(t, trigger.Events)
	})

	t.Run("should skip repositories that cannot be polled", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := doubles.NewGitFixture()
		set, _ := entities.NewRuleSet([]*entities.MappingRule{entitybuilders.NewRuleBuilder().BuildRule()})
		holder := entities.NewRuleSetHolder()
		reload := &commanddoubles.StubReloadCommand{Set: set, Holder: holder}
		trigger := &commanddoubles.StubTriggerCommand{}
		command := commands.NewWatchCommand(fixture.Settings, holder, fixture.Store(), reload, trigger)

		// when
		err := command.Execute(context.Background(), commands.WatchOptions{Once: true})

		// then
		require.NoError(t, err)
		assert.Empty(t, trigger.Events)
	})

	t.Run("should fail when the rules cannot be loaded", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := doubles.NewGitFixture()
		reload := &commanddoubles.StubReloadCommand{ExecuteErr: errors.New("unreadable")}
		trigger := &commanddoubles.StubTriggerCommand{}
		command := commands.NewWatchCommand(
			fixture.Settings, entities.NewRuleSetHolder(), fixture.Store(), reload, trigger)

		// when
		err := command.Execute(context.Background(), commands.WatchOptions{Once: true})

		// then
		require.Error(t, err)
		assert.Empty(t, trigger.Events)
	})
}
