package repositories

import (
	"context"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// RuleRepository reads the mapping rule document.
type RuleRepository interface {
	// LoadRules parses every entry of the rule document. Entries that fail
	// validation are returned as errors next to the valid rules.
	LoadRules(ctx context.Context) ([]*entities.MappingRule, []error, error)
}
