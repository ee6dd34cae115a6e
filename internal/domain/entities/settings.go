package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultIdentityName  = "Supermanifest"
	defaultIdentityEmail = "supermanifest@localhost"
	defaultCommitMessage = "Update submodules from manifest"
	defaultRulesRef      = "refs/meta/config"
	defaultRulesPath     = "supermanifest.config"
	defaultWatchInterval = 30 * time.Second
)

// Settings is the top-level configuration for supermanifest.
type Settings struct {
	Repositories  RepositoriesConfig `yaml:"repositories"`
	Identity      IdentityConfig     `yaml:"identity"`
	CommitMessage string             `yaml:"commit_message"`
	Rules         RulesConfig        `yaml:"rules"`
	Watch         WatchConfig        `yaml:"watch"`
}

// RepositoriesConfig describes where repositories live and how they are
// addressed from the outside.
type RepositoriesConfig struct {
	Root         string   `yaml:"root"`          // directory holding the bare repositories
	CanonicalURL string   `yaml:"canonical_url"` // e.g. https://git.example.com/
	LocalURLs    []string `yaml:"local_urls"`    // base URLs served by this host
}

// IdentityConfig is the author and committer of synthesized commits.
type IdentityConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// RulesConfig tells where the mapping rule document is read from: a local
// file, or a blob at repository:ref:path.
type RulesConfig struct {
	File       string `yaml:"file"`
	Repository string `yaml:"repository"`
	Ref        string `yaml:"ref"`
	Path       string `yaml:"path"`
}

// FromRepository reports whether the rule document lives in the git store.
func (r RulesConfig) FromRepository() bool {
	return r.File == "" && r.Repository != ""
}

// IsSourceEvent reports whether an update of refName in repo changes the
// rule document.
func (r RulesConfig) IsSourceEvent(repo, refName string) bool {
	return r.FromRepository() && repo == r.Repository && refName == r.Ref
}

func (r RulesConfig) String() string {
	if r.FromRepository() {
		return r.Repository + ":" + r.Ref + ":" + r.Path
	}
	return r.File
}

// WatchConfig controls the polling loop of the watch command.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and filling defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings parses configuration content.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Repositories.Root = expandEnv(settings.Repositories.Root)
	settings.Repositories.CanonicalURL = expandEnv(settings.Repositories.CanonicalURL)
	for i := range settings.Repositories.LocalURLs {
		settings.Repositories.LocalURLs[i] = expandEnv(settings.Repositories.LocalURLs[i])
	}
	settings.Rules.File = expandEnv(settings.Rules.File)

	applyDefaults(&settings)

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(locations, homeDir)
	}
	locations = append(locations, xdg.ConfigHome)

	patterns := []string{
		".supermanifest.yaml",
		".supermanifest.yml",
		"supermanifest.yaml",
		"supermanifest.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv replaces ${VAR} references with their environment values.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func applyDefaults(settings *Settings) {
	if settings.Identity.Name == "" {
		settings.Identity.Name = defaultIdentityName
	}
	if settings.Identity.Email == "" {
		settings.Identity.Email = defaultIdentityEmail
	}
	if settings.CommitMessage == "" {
		settings.CommitMessage = defaultCommitMessage
	}
	if settings.Rules.FromRepository() {
		if settings.Rules.Ref == "" {
			settings.Rules.Ref = defaultRulesRef
		}
		if settings.Rules.Path == "" {
			settings.Rules.Path = defaultRulesPath
		}
	}
	if settings.Watch.Interval <= 0 {
		settings.Watch.Interval = defaultWatchInterval
	}

	// Only http(s) download URLs carry a full host name.
	localURLs := settings.Repositories.LocalURLs[:0]
	for _, raw := range settings.Repositories.LocalURLs {
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			logger.Warnf("Ignoring local URL %q: only http(s) URLs with a host are supported", raw)
			continue
		}
		localURLs = append(localURLs, raw)
	}
	settings.Repositories.LocalURLs = localURLs
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if strings.TrimSpace(settings.Repositories.Root) == "" {
		return errors.New("repositories.root is required")
	}
	if settings.Rules.File == "" && settings.Rules.Repository == "" {
		return errors.New("one of rules.file or rules.repository must be configured")
	}
	if settings.Rules.File != "" && settings.Rules.Repository != "" {
		return errors.New("rules.file and rules.repository are mutually exclusive")
	}
	if settings.Repositories.CanonicalURL != "" {
		if _, err := url.Parse(settings.Repositories.CanonicalURL); err != nil {
			return fmt.Errorf("repositories.canonical_url is invalid: %w", err)
		}
	}
	return nil
}

// SettingsHolder publishes the Settings of the running process.
type SettingsHolder struct {
	current atomic.Pointer[Settings]
}

// NewSettingsHolder returns an empty holder.
func NewSettingsHolder() *SettingsHolder {
	return &SettingsHolder{}
}

// Load returns the published settings, or an error when none were loaded yet.
func (h *SettingsHolder) Load() (*Settings, error) {
	settings := h.current.Load()
	if settings == nil {
		return nil, errors.New("settings have not been loaded")
	}
	return settings, nil
}

// Store publishes settings.
func (h *SettingsHolder) Store(settings *Settings) {
	h.current.Store(settings)
}
