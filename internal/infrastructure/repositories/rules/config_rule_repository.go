package rules

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// ConfigRuleRepository reads the rule document from a local file or from a
// blob of the repository store, as the settings say.
type ConfigRuleRepository struct {
	settings *entities.SettingsHolder
	store    repositories.RepositoryStore
}

var _ repositories.RuleRepository = (*ConfigRuleRepository)(nil)

// NewConfigRuleRepository creates the rule repository.
func NewConfigRuleRepository(
	settings *entities.SettingsHolder,
	store repositories.RepositoryStore,
) *ConfigRuleRepository {
	return &ConfigRuleRepository{settings: settings, store: store}
}

// LoadRules returns the valid rules of the document along with one error per
// invalid entry. Rules whose source or destination repository does not exist
// are dropped with a warning. A missing document yields no rules.
func (it *ConfigRuleRepository) LoadRules(ctx context.Context) ([]*entities.MappingRule, []error, error) {
	settings, err := it.settings.Load()
	if err != nil {
		return nil, nil, err
	}

	data, err := it.read(ctx, settings.Rules)
	if err != nil {
		return nil, nil, err
	}
	if data == nil {
		logger.Infof("No rule document at %s", settings.Rules)
		return nil, nil, nil
	}

	entries, invalid, err := ParseDocument(data)
	if err != nil {
		return nil, nil, entities.NewConfigurationError("%s: %v", settings.Rules, err)
	}

	var rules []*entities.MappingRule
	for _, entry := range entries {
		rule, ruleErr := entities.NewMappingRule(entry.Name, entry.Definition)
		if ruleErr != nil {
			invalid = append(invalid, ruleErr)
			continue
		}
		if !it.store.Exists(rule.SourceRepo()) {
			logger.Warnf("Ignoring %s: source repository %s does not exist", rule, rule.SourceRepo())
			continue
		}
		if !it.store.Exists(rule.DestRepo()) {
			logger.Warnf("Ignoring %s: destination repository %s does not exist", rule, rule.DestRepo())
			continue
		}
		rules = append(rules, rule)
	}
	return rules, invalid, nil
}

func (it *ConfigRuleRepository) read(ctx context.Context, config entities.RulesConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !config.FromRepository() {
		data, err := os.ReadFile(config.File)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rule document: %w", err)
		}
		return data, nil
	}

	session, err := it.store.NewSession()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warnf("Failed to release repositories: %v", closeErr)
		}
	}()

	repo, err := session.Open(config.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule repository %s: %w", config.Repository, err)
	}
	spec := entities.ManifestRef{Repo: config.Repository, Ref: config.Ref, Path: config.Path}
	data, err := repo.ReadBlob(spec.BlobSpec())
	if errors.Is(err, repositories.ErrRefNotFound) || errors.Is(err, repositories.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rule document %s: %w", spec, err)
	}
	return data, nil
}
