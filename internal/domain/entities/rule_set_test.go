//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/test/domain/entitybuilders"
)

func TestNewRuleSet(t *testing.T) {
	t.Parallel()

	t.Run("should keep valid rules in document order", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/a").BuildRule()
		second := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/b").BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{first, second})

		// then
		assert.Empty(t, errs)
		assert.Equal(t, []*entities.MappingRule{first, second}, set.Rules())
		assert.Equal(t, []string{"manifest"}, set.SourceRepos())
	})

	t.Run("should drop duplicate destination and keep siblings", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/a").BuildRule()
		duplicate := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/a").WithSrcPath("other.xml").BuildRule()
		sibling := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/b").BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{first, duplicate, sibling})

		// then
		require.Len(t, errs, 1)
		assert.Equal(t, entities.KindConfiguration, entities.KindOf(errs[0]))
		assert.Equal(t, []*entities.MappingRule{first, sibling}, set.Rules())
	})

	t.Run("should reject rule writing to its own source", func(t *testing.T) {
		t.Parallel()

		// given
		rule := entitybuilders.NewRuleBuilder().WithName("manifest:refs/heads/out").BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{rule})

		// then
		require.Len(t, errs, 1)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("should reject source that is an earlier destination", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/a").BuildRule()
		chained := entitybuilders.NewRuleBuilder().
			WithName("other:refs/heads/a").
			WithSrcRepo("super").
			BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{first, chained})

		// then
		require.Len(t, errs, 1)
		assert.Equal(t, []*entities.MappingRule{first}, set.Rules())
	})

	t.Run("should reject overlapping wildcard destinations", func(t *testing.T) {
		t.Parallel()

		// given
		all := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/*").BuildRule()
		nyc := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/nyc-*").BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{all, nyc})

		// then
		require.Len(t, errs, 1)
		assert.Equal(t, []*entities.MappingRule{all}, set.Rules())
	})

	t.Run("should accept disjoint wildcard destinations", func(t *testing.T) {
		t.Parallel()

		// given
		nyc := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/nyc-*").BuildRule()
		sfo := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/sfo-*").BuildRule()
		elsewhere := entitybuilders.NewRuleBuilder().WithName("other:refs/heads/*").BuildRule()

		// when
		set, errs := entities.NewRuleSet([]*entities.MappingRule{nyc, sfo, elsewhere})

		// then
		assert.Empty(t, errs)
		assert.Equal(t, 3, set.Len())
	})
}

func TestRuleSetMatch(t *testing.T) {
	t.Parallel()

	t.Run("should return literal destination for exact source ref", func(t *testing.T) {
		t.Parallel()

		// given
		rule := entitybuilders.NewRuleBuilder().
			WithName("superproject:refs/heads/nyc").
			WithSrcRef("refs/heads/nyc-src").
			WithSrcPath("default").
			BuildRule()
		set, _ := entities.NewRuleSet([]*entities.MappingRule{rule})

		// when
		triggers, err := set.Match("manifest", "refs/heads/nyc-src")

		// then
		require.NoError(t, err)
		require.Len(t, triggers, 1)
		assert.Equal(t, "refs/heads/nyc", triggers[0].TargetRef())
		assert.Equal(t, entities.RuleKey{DestRepo: "superproject", DestBranch: "nyc"}, triggers[0].Key())
	})

	t.Run("should skip excluded refs of wildcard rule", func(t *testing.T) {
		t.Parallel()

		// given
		rule := entitybuilders.NewRuleBuilder().
			WithName("superproject:refs/heads/*").
			WithExclude("refs/heads/a,refs/heads/b").
			BuildRule()
		set, _ := entities.NewRuleSet([]*entities.MappingRule{rule})

		// when
		onA, errA := set.Match("manifest", "refs/heads/a")
		onC, errC := set.Match("manifest", "refs/heads/c")

		// then
		require.NoError(t, errA)
		require.NoError(t, errC)
		assert.Empty(t, onA)
		require.Len(t, onC, 1)
		assert.Equal(t, "c", onC[0].DestBranch)
	})

	t.Run("should refuse event when two rules write the same branch", func(t *testing.T) {
		t.Parallel()

		// given
		wildcard := entitybuilders.NewRuleBuilder().WithName("super:refs/heads/nyc-*").BuildRule()
		literal := entitybuilders.NewRuleBuilder().
			WithName("super:refs/heads/nyc-1").
			WithSrcRef("refs/heads/nyc-1").
			BuildRule()
		set, errs := entities.NewRuleSet([]*entities.MappingRule{wildcard, literal})
		require.Empty(t, errs)

		// when
		triggers, err := set.Match("manifest", "refs/heads/nyc-1")
		reports := set.Inspect("manifest", "refs/heads/nyc-1")

		// then
		require.Error(t, err)
		assert.Nil(t, triggers)
		assert.Equal(t, entities.KindConfiguration, entities.KindOf(err))

		require.Len(t, reports, 2)
		assert.Equal(t, entities.DecisionMatch, reports[0].Decision)
		assert.Same(t, wildcard, reports[0].Trigger.Rule)
		assert.Equal(t, entities.DecisionSkip, reports[1].Decision)
		assert.Same(t, wildcard, reports[1].OverlapsWith)
		assert.Equal(t, "MATCH: "+wildcard.String(), reports[0].String())
		assert.Equal(t, "SKIP: "+literal.String()+". Overlap with "+wildcard.String(), reports[1].String())
	})

	t.Run("should return nothing for unknown repository", func(t *testing.T) {
		t.Parallel()

		// given
		set, _ := entities.NewRuleSet([]*entities.MappingRule{entitybuilders.NewRuleBuilder().BuildRule()})

		// when
		triggers, err := set.Match("unknown", "refs/heads/main")

		// then
		require.NoError(t, err)
		assert.Empty(t, triggers)
	})
}

func TestRuleSetHolder(t *testing.T) {
	t.Parallel()

	t.Run("should start with empty set", func(t *testing.T) {
		t.Parallel()

		// given
		holder := entities.NewRuleSetHolder()

		// when
		set := holder.Load()

		// then
		assert.Equal(t, 0, set.Len())
	})

	t.Run("should publish stored set", func(t *testing.T) {
		t.Parallel()

		// given
		holder := entities.NewRuleSetHolder()
		set, _ := entities.NewRuleSet([]*entities.MappingRule{entitybuilders.NewRuleBuilder().BuildRule()})

		// when
		holder.Store(set)

		// then
		assert.Same(t, set, holder.Load())
	})

	t.Run("should replace nil with empty set", func(t *testing.T) {
		t.Parallel()

		// given
		holder := entities.NewRuleSetHolder()

		// when
		holder.Store(nil)

		// then
		assert.NotNil(t, holder.Load())
		assert.Equal(t, 0, holder.Load().Len())
	})
}
