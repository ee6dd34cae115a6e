package entities

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Trigger is a rule that fired for an event, with its concrete destination.
type Trigger struct {
	Rule       *MappingRule
	DestBranch string // short name, never a pattern
}

// Key is the concrete destination written by the trigger.
func (t Trigger) Key() RuleKey {
	return RuleKey{DestRepo: t.Rule.DestRepo(), DestBranch: t.DestBranch}
}

// TargetRef is the fully qualified destination branch.
func (t Trigger) TargetRef() string {
	return HeadsPrefix + t.DestBranch
}

// TriggerDecision is the verdict of the advisory matcher for one rule.
type TriggerDecision string

const (
	DecisionMatch TriggerDecision = "MATCH"
	DecisionSkip  TriggerDecision = "SKIP"
)

// TriggerReport is one line of RuleSet.Inspect.
type TriggerReport struct {
	Decision     TriggerDecision
	Trigger      Trigger
	OverlapsWith *MappingRule // set for DecisionSkip
}

func (r TriggerReport) String() string {
	if r.Decision == DecisionSkip {
		return fmt.Sprintf("SKIP: %s. Overlap with %s", r.Trigger.Rule, r.OverlapsWith)
	}
	return fmt.Sprintf("MATCH: %s", r.Trigger.Rule)
}

// RuleSet is a validated, immutable collection of mapping rules. Build it
// with NewRuleSet and publish it through a RuleSetHolder.
type RuleSet struct {
	rules []*MappingRule
}

// NewRuleSet validates rules in order and keeps the ones that pass. Every
// rejected rule yields one configuration error; rejection never affects
// the siblings of a rule.
//
// A rule is rejected when its key duplicates an earlier rule, when its source
// repository is the destination of an earlier rule (or the other way round),
// or when its wildcard destination overlaps an earlier wildcard destination
// of the same repository.
func NewRuleSet(rules []*MappingRule) (*RuleSet, []error) {
	var errs []error
	kept := make([]*MappingRule, 0, len(rules))

	keys := make(map[RuleKey]*MappingRule)
	sources := make(map[string]bool)
	destinations := make(map[string]bool)
	wildcards := make(map[string][]*MappingRule)

	for _, rule := range rules {
		if rule == nil {
			continue
		}

		if existing, dup := keys[rule.Key()]; dup {
			errs = append(errs, NewConfigurationError(
				"entry %s duplicates destination of %s", rule, existing))
			continue
		}

		if rule.SourceRepo() == rule.DestRepo() ||
			destinations[rule.SourceRepo()] || sources[rule.DestRepo()] {
			errs = append(errs, NewConfigurationError(
				"repo in entry %s cannot be both source and destination", rule))
			continue
		}

		if rule.IsWildcard() {
			if other := overlappingWildcard(wildcards[rule.DestRepo()], rule); other != nil {
				errs = append(errs, NewConfigurationError(
					"repo %s already has a wildcard destination branch %s overlapping %s",
					rule.DestRepo(), other.DestBranch(), rule.DestBranch()))
				continue
			}
			wildcards[rule.DestRepo()] = append(wildcards[rule.DestRepo()], rule)
		}

		keys[rule.Key()] = rule
		sources[rule.SourceRepo()] = true
		destinations[rule.DestRepo()] = true
		kept = append(kept, rule)
	}

	return &RuleSet{rules: kept}, errs
}

func overlappingWildcard(known []*MappingRule, rule *MappingRule) *MappingRule {
	for _, other := range known {
		if GlobsOverlap(other.DestBranch(), rule.DestBranch()) {
			return other
		}
	}
	return nil
}

// Len returns the number of rules in effect.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns the rules in effect, in document order.
func (s *RuleSet) Rules() []*MappingRule {
	if s == nil {
		return nil
	}
	return append([]*MappingRule(nil), s.rules...)
}

// SourceRepos returns the sorted, distinct source repositories.
func (s *RuleSet) SourceRepos() []string {
	seen := make(map[string]bool)
	var repos []string
	for _, rule := range s.Rules() {
		if !seen[rule.SourceRepo()] {
			seen[rule.SourceRepo()] = true
			repos = append(repos, rule.SourceRepo())
		}
	}
	sort.Strings(repos)
	return repos
}

func (s *RuleSet) candidates(repo, refName string) []Trigger {
	var triggers []Trigger
	for _, rule := range s.Rules() {
		if rule.Matches(repo, refName) {
			triggers = append(triggers, Trigger{Rule: rule, DestBranch: rule.ActualDestBranch(refName)})
		}
	}
	return triggers
}

// Match returns the rules fired by an update of refName in repo. When two of
// them resolve to the same destination branch the whole event is refused
// with a configuration error.
func (s *RuleSet) Match(repo, refName string) ([]Trigger, error) {
	triggers := s.candidates(repo, refName)
	seen := make(map[RuleKey]*MappingRule, len(triggers))
	for _, trigger := range triggers {
		if other, taken := seen[trigger.Key()]; taken {
			return nil, NewConfigurationError(
				"entries %s and %s both write %s for %s:%s",
				other, trigger.Rule, trigger.Key(), repo, refName)
		}
		seen[trigger.Key()] = trigger.Rule
	}
	return triggers, nil
}

// Inspect is the read-only variant of Match: the first rule per destination
// is reported as a match, later ones as skipped.
func (s *RuleSet) Inspect(repo, refName string) []TriggerReport {
	triggers := s.candidates(repo, refName)
	reports := make([]TriggerReport, 0, len(triggers))
	seen := make(map[RuleKey]*MappingRule, len(triggers))
	for _, trigger := range triggers {
		if other, taken := seen[trigger.Key()]; taken {
			reports = append(reports, TriggerReport{
				Decision: DecisionSkip, Trigger: trigger, OverlapsWith: other,
			})
			continue
		}
		seen[trigger.Key()] = trigger.Rule
		reports = append(reports, TriggerReport{Decision: DecisionMatch, Trigger: trigger})
	}
	return reports
}

func (s *RuleSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supermanifest config (%d) {\n", s.Len())
	for _, rule := range s.Rules() {
		fmt.Fprintf(&b, " %s\n", rule)
	}
	b.WriteString("}\n")
	return b.String()
}

// RuleSetHolder publishes the RuleSet currently in effect. Readers never see
// a partially built set: writers build a new one and swap it in.
type RuleSetHolder struct {
	current atomic.Pointer[RuleSet]
}

// NewRuleSetHolder returns a holder publishing an empty RuleSet.
func NewRuleSetHolder() *RuleSetHolder {
	holder := &RuleSetHolder{}
	holder.current.Store(&RuleSet{})
	return holder
}

// Load returns the current snapshot.
func (h *RuleSetHolder) Load() *RuleSet {
	if set := h.current.Load(); set != nil {
		return set
	}
	return &RuleSet{}
}

// Store publishes set as the current snapshot.
func (h *RuleSetHolder) Store(set *RuleSet) {
	if set == nil {
		set = &RuleSet{}
	}
	h.current.Store(set)
}
