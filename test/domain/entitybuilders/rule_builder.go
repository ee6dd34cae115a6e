//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// RuleBuilder helps create mapping rules with a fluent interface.
type RuleBuilder struct {
	*testkit.BaseBuilder
	name       string
	definition entities.RuleDefinition
}

// NewRuleBuilder creates a rule builder for "superproject:refs/heads/main"
// fed by default.xml of manifest:refs/heads/main.
func NewRuleBuilder() *RuleBuilder {
	return &RuleBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "superproject:refs/heads/main",
		definition:  defaultDefinition(),
	}
}

func defaultDefinition() entities.RuleDefinition {
	return entities.RuleDefinition{
		SrcRepo:            "manifest",
		SrcRef:             "refs/heads/main",
		SrcPath:            "default.xml",
		ToolType:           "graph",
		RecordRemoteBranch: true,
	}
}

// WithName sets the "<destRepo>:<destRef>" entry name.
func (b *RuleBuilder) WithName(name string) *RuleBuilder {
	b.name = name
	return b
}

// WithSrcRepo sets the manifest repository.
func (b *RuleBuilder) WithSrcRepo(repo string) *RuleBuilder {
	b.definition.SrcRepo = repo
	return b
}

// WithSrcRef sets the manifest ref.
func (b *RuleBuilder) WithSrcRef(ref string) *RuleBuilder {
	b.definition.SrcRef = ref
	return b
}

// WithSrcPath sets the manifest path.
func (b *RuleBuilder) WithSrcPath(path string) *RuleBuilder {
	b.definition.SrcPath = path
	return b
}

// WithToolType sets the raw tool type.
func (b *RuleBuilder) WithToolType(toolType string) *RuleBuilder {
	b.definition.ToolType = toolType
	return b
}

// WithExclude sets the comma-separated exclusion list.
func (b *RuleBuilder) WithExclude(exclude string) *RuleBuilder {
	b.definition.Exclude = exclude
	return b
}

// WithIgnoreRemoteFailures sets the ignoreRemoteFailures flag.
func (b *RuleBuilder) WithIgnoreRemoteFailures(ignore bool) *RuleBuilder {
	b.definition.IgnoreRemoteFailures = ignore
	return b
}

// Definition returns the raw definition without validating it.
func (b *RuleBuilder) Definition() entities.RuleDefinition {
	return b.definition
}

// Name returns the entry name.
func (b *RuleBuilder) Name() string {
	return b.name
}

// Build creates the rule (satisfies testkit.Builder interface).
func (b *RuleBuilder) Build() interface{} {
	return b.BuildRule()
}

// BuildRule validates and creates the rule. It panics on an invalid rule, so
// use entities.NewMappingRule directly to test validation.
func (b *RuleBuilder) BuildRule() *entities.MappingRule {
	rule, err := entities.NewMappingRule(b.name, b.definition)
	if err != nil {
		panic(err)
	}
	return rule
}

// Reset clears the builder state, allowing it to be reused.
func (b *RuleBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "superproject:refs/heads/main"
	b.definition = defaultDefinition()
	return b
}

// Clone creates a deep copy of the RuleBuilder.
func (b *RuleBuilder) Clone() testkit.Builder {
	return &RuleBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		definition:  b.definition,
	}
}
