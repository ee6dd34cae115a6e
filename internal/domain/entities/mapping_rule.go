package entities

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// HeadsPrefix is the namespace every destination branch lives in.
const HeadsPrefix = "refs/heads/"

// DefaultRemoteBranch is assumed wherever a manifest leaves the branch empty.
const DefaultRemoteBranch = "master"

// ToolKind selects the manifest format, and so the updater, of a rule.
type ToolKind int

const (
	// ToolLegacy is the "repo" tool manifest, handled by an external library.
	ToolLegacy ToolKind = iota
	// ToolGraph is the graph manifest resolved by this module.
	ToolGraph
)

func (k ToolKind) String() string {
	if k == ToolGraph {
		return "graph"
	}
	return "legacy"
}

// ParseToolKind maps the toolType value of a rule document onto a ToolKind.
func ParseToolKind(raw string) (ToolKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "legacy", "repo":
		return ToolLegacy, nil
	case "graph", "jiri":
		return ToolGraph, nil
	default:
		return ToolLegacy, fmt.Errorf("invalid toolType: %s", raw)
	}
}

// RuleDefinition holds the raw, unvalidated fields of one rule document entry.
type RuleDefinition struct {
	SrcRepo               string
	SrcRef                string
	SrcPath               string
	ToolType              string
	Exclude               string // comma-separated glob list
	RecordSubmoduleLabels bool
	IgnoreRemoteFailures  bool
	RecordRemoteBranch    bool
	Groups                string
}

// RuleKey identifies a rule, and the destination branch it writes to.
type RuleKey struct {
	DestRepo   string
	DestBranch string
}

func (k RuleKey) String() string {
	return k.DestRepo + ":" + k.DestBranch
}

// MappingRule binds a manifest in a source repository to a branch of a
// destination superproject. It is immutable once built by NewMappingRule.
type MappingRule struct {
	sourceRepo     string
	sourceRef      string
	manifestPath   string
	destRepo       string
	destBranchSpec string
	excluded       []string
	toolKind       ToolKind
	groups         string

	recordSubmoduleLabels bool
	ignoreRemoteFailures  bool
	recordRemoteBranch    bool
}

// NewMappingRule validates def for the entry named name, which must read
// "<destRepo>:refs/heads/<branch>". The branch may carry a single '*', in
// which case the rule follows every matching source branch and SrcRef is
// ignored.
func NewMappingRule(name string, def RuleDefinition) (*MappingRule, error) {
	destRepo, destRef, ok := strings.Cut(name, ":")
	if !ok || destRepo == "" || strings.Contains(destRef, ":") {
		return nil, NewConfigurationError("entry '%s' must have form REPO:BRANCH", name)
	}
	if !strings.HasPrefix(destRef, HeadsPrefix) {
		return nil, NewConfigurationError("invalid destination '%s'. Must specify %s", destRef, HeadsPrefix)
	}
	if CountWildcards(destRef) > 1 {
		return nil, NewConfigurationError("invalid destination '%s' has more than one '*'", destRef)
	}

	srcRepo := strings.TrimSpace(def.SrcRepo)
	if srcRepo == "" {
		return nil, NewConfigurationError("entry %s did not specify srcRepo", name)
	}

	toolKind, err := ParseToolKind(def.ToolType)
	if err != nil {
		return nil, NewConfigurationError("entry %s has %v", name, err)
	}

	srcRef := ""
	if CountWildcards(destRef) == 0 {
		if validateErr := plumbing.ReferenceName(destRef).Validate(); validateErr != nil {
			return nil, NewConfigurationError("destination branch '%s' invalid", destRef)
		}
		srcRef = strings.TrimSpace(def.SrcRef)
		if srcRef == "" {
			return nil, NewConfigurationError("entry %s did not specify srcRef", name)
		}
		if CountWildcards(srcRef) > 0 || plumbing.ReferenceName(srcRef).Validate() != nil {
			return nil, NewConfigurationError("source ref '%s' invalid", srcRef)
		}
	}

	excluded, err := parseExclusions(def.Exclude)
	if err != nil {
		return nil, NewConfigurationError("entry %s: %v", name, err)
	}

	manifestPath := strings.TrimSpace(def.SrcPath)
	if manifestPath == "" {
		return nil, NewConfigurationError("entry %s did not specify srcPath", name)
	}

	return &MappingRule{
		sourceRepo:            srcRepo,
		sourceRef:             srcRef,
		manifestPath:          manifestPath,
		destRepo:              destRepo,
		destBranchSpec:        destRef,
		excluded:              excluded,
		toolKind:              toolKind,
		groups:                strings.TrimSpace(def.Groups),
		recordSubmoduleLabels: def.RecordSubmoduleLabels,
		ignoreRemoteFailures:  def.IgnoreRemoteFailures,
		recordRemoteBranch:    def.RecordRemoteBranch,
	}, nil
}

func parseExclusions(raw string) ([]string, error) {
	var patterns []string
	seen := make(map[string]bool)
	for _, item := range strings.Split(raw, ",") {
		pattern := strings.TrimSpace(item)
		if pattern == "" || seen[pattern] {
			continue
		}
		if CountWildcards(pattern) > 1 {
			return nil, fmt.Errorf("exclude pattern '%s' has more than one '*'", pattern)
		}
		seen[pattern] = true
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

func (r *MappingRule) SourceRepo() string     { return r.sourceRepo }
func (r *MappingRule) SourceRef() string      { return r.sourceRef }
func (r *MappingRule) ManifestPath() string   { return r.manifestPath }
func (r *MappingRule) DestRepo() string       { return r.destRepo }
func (r *MappingRule) DestBranchSpec() string { return r.destBranchSpec }
func (r *MappingRule) ToolKind() ToolKind     { return r.toolKind }
func (r *MappingRule) GroupsFilter() string   { return r.groups }

func (r *MappingRule) RecordSubmoduleLabels() bool { return r.recordSubmoduleLabels }
func (r *MappingRule) IgnoreRemoteFailures() bool  { return r.ignoreRemoteFailures }
func (r *MappingRule) RecordRemoteBranch() bool    { return r.recordRemoteBranch }

// ExcludedRefPatterns returns a copy of the exclusion globs.
func (r *MappingRule) ExcludedRefPatterns() []string {
	return append([]string(nil), r.excluded...)
}

// DestBranch is the destination branch without the refs/heads/ prefix, as
// written in the rule (so possibly containing '*').
func (r *MappingRule) DestBranch() string {
	return strings.TrimPrefix(r.destBranchSpec, HeadsPrefix)
}

// IsWildcard reports whether the destination branch carries a '*'.
func (r *MappingRule) IsWildcard() bool {
	return CountWildcards(r.destBranchSpec) > 0
}

// Key is the rule identity; two rules sharing it are duplicates.
func (r *MappingRule) Key() RuleKey {
	return RuleKey{DestRepo: r.destRepo, DestBranch: r.DestBranch()}
}

// Matches reports whether an update of refName in repo should trigger this rule.
func (r *MappingRule) Matches(repo, refName string) bool {
	if r.sourceRepo != repo {
		return false
	}

	if r.IsWildcard() {
		if !strings.HasPrefix(refName, HeadsPrefix) {
			return false
		}
		if !MatchGlob(r.DestBranch(), strings.TrimPrefix(refName, HeadsPrefix)) {
			return false
		}
	} else if refName != r.sourceRef {
		return false
	}

	return !r.Excludes(refName)
}

// Excludes reports whether refName matches any exclusion pattern.
func (r *MappingRule) Excludes(refName string) bool {
	return MatchAnyGlob(r.excluded, refName)
}

// ActualDestBranch returns the short destination branch name for an update
// of refName, which must have matched the rule.
func (r *MappingRule) ActualDestBranch(refName string) string {
	if r.IsWildcard() {
		return strings.TrimPrefix(refName, HeadsPrefix)
	}
	return r.DestBranch()
}

// Source renders "<repo>:<ref>:<manifest>".
func (r *MappingRule) Source() string {
	ref := r.sourceRef
	if r.IsWildcard() {
		ref = r.DestBranch()
	}
	return r.sourceRepo + ":" + ref + ":" + r.manifestPath
}

// Destination renders "<repo>:<branch>".
func (r *MappingRule) Destination() string {
	return r.Key().String()
}

func (r *MappingRule) String() string {
	return fmt.Sprintf("%s (%s) => %s", r.Source(), r.toolKind, r.Destination())
}
