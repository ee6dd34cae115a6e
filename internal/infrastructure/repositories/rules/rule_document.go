package rules

import (
	"bytes"
	"fmt"
	"strings"

	formatconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

const superprojectSection = "superproject"

// Entry is one "[superproject "<name>"]" subsection of a rule document.
type Entry struct {
	Name       string
	Definition entities.RuleDefinition
}

// ParseDocument decodes a git-config rule document. Sections other than
// superproject are ignored. An entry with a bad option is left out and
// reported in the returned slice of errors; only a syntax error fails the
// whole document.
func ParseDocument(data []byte) ([]Entry, []error, error) {
	cfg := formatconfig.New()
	if err := formatconfig.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid rule document: %w", err)
	}

	var entries []Entry
	var invalid []error
	for _, section := range cfg.Sections {
		if !section.IsName(superprojectSection) {
			logger.Warnf("Ignoring unknown section [%s] in rule document", section.Name)
			continue
		}
		for _, sub := range section.Subsections {
			definition, err := definitionOf(sub)
			if err != nil {
				invalid = append(invalid, entities.NewConfigurationError("entry %s: %v", sub.Name, err))
				continue
			}
			entries = append(entries, Entry{Name: sub.Name, Definition: definition})
		}
	}
	return entries, invalid, nil
}

func definitionOf(sub *formatconfig.Subsection) (entities.RuleDefinition, error) {
	definition := entities.RuleDefinition{
		SrcRepo:  sub.Option("srcRepo"),
		SrcRef:   sub.Option("srcRef"),
		SrcPath:  sub.Option("srcPath"),
		ToolType: sub.Option("toolType"),
		Exclude:  strings.Join(sub.OptionAll("exclude"), ","),
		Groups:   sub.Option("groups"),
	}

	var err error
	if definition.RecordSubmoduleLabels, err = boolOption(sub, "recordSubmoduleLabels", false); err != nil {
		return definition, err
	}
	if definition.IgnoreRemoteFailures, err = boolOption(sub, "ignoreRemoteFailures", false); err != nil {
		return definition, err
	}
	if definition.RecordRemoteBranch, err = boolOption(sub, "recordRemoteBranch", true); err != nil {
		return definition, err
	}
	return definition, nil
}

// boolOption reads a git-config boolean. A key given without a value is
// true.
func boolOption(sub *formatconfig.Subsection, key string, fallback bool) (bool, error) {
	if !sub.HasOption(key) {
		return fallback, nil
	}
	switch strings.ToLower(strings.TrimSpace(sub.Option(key))) {
	case "", "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return fallback, fmt.Errorf("invalid boolean for %s: %q", key, sub.Option(key))
	}
}
