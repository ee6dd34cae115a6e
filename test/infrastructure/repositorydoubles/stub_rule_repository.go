//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// StubRuleRepository implements repositories.RuleRepository with canned rules.
type StubRuleRepository struct {
	Rules     []*entities.MappingRule
	Invalid   []error
	LoadErr   error
	LoadCalls int
}

var _ repositories.RuleRepository = (*StubRuleRepository)(nil)

func (s *StubRuleRepository) LoadRules(_ context.Context) ([]*entities.MappingRule, []error, error) {
	s.LoadCalls++
	if s.LoadErr != nil {
		return nil, nil, s.LoadErr
	}
	return s.Rules, s.Invalid, nil
}
