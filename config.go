package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile      = "config.yaml"
	defaultOutputDirectory = "output"
	defaultSummaryFilename = "SUMMARY.md"
	defaultFetchTimeout    = 30 * time.Second
	defaultUserAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	defaultProvider        = "openai"
	defaultModel           = "gpt-4o-mini"
	defaultFrequency       = "unknown"
	unknownSourceName      = "unknown"
)

// ErrConfigNotFound is returned when the configuration file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// Embedded configuration files
//
//go:embed config/config.example.yaml
var defaultConfig string

//go:embed config/summarizer-system-prompt.md
var defaultSystemPrompt string

//go:embed config/summarizer-user-prompt.md
var defaultUserPrompt string

// ListKind selects how a list page is parsed
type ListKind string

const (
	ListKindHTML ListKind = "html"
	ListKindFeed ListKind = "feed"
)

// ListPage locates the target URL on an archive or feed page
type ListPage struct {
	URL          string   `yaml:"url"`
	LinkSelector string   `yaml:"link_selector"`
	LinkIndex    int      `yaml:"link_index"`
	Kind         ListKind `yaml:"kind"`
}

// IsFeed reports whether the list page is parsed as an RSS/Atom/JSON feed
func (lp ListPage) IsFeed() bool {
	return strings.EqualFold(string(lp.Kind), string(ListKindFeed))
}

// Validate checks the fields required to resolve a link
func (lp ListPage) Validate() error {
	if strings.TrimSpace(lp.URL) == "" {
		return errors.New("missing url")
	}
	if !lp.IsFeed() && strings.TrimSpace(lp.LinkSelector) == "" {
		return errors.New("missing link_selector")
	}
	return nil
}

// Source describes one newsletter
type Source struct {
	Name            string    `yaml:"name"`
	URL             string    `yaml:"url"`
	ListPage        *ListPage `yaml:"list_page"`
	Selector        string    `yaml:"selector"`
	IgnoreSelectors []string  `yaml:"ignore_selectors"`
	Format          string    `yaml:"output_format"`
	Enabled         *bool     `yaml:"enabled"`
	Frequency       string    `yaml:"frequency"`
}

// IsEnabled defaults to true when enabled is not set
func (s Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

func (s Source) DisplayName() string {
	if s.Name == "" {
		return unknownSourceName
	}
	return s.Name
}

func (s Source) FrequencyLabel() string {
	if s.Frequency == "" {
		return defaultFrequency
	}
	return s.Frequency
}

func (s Source) OutputFormat() Format {
	f, _ := ParseFormat(s.Format)
	return f
}

// FetchSettings configures the HTTP session
type FetchSettings struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	RequestDelay time.Duration `yaml:"request_delay"`
}

// AISettings configures the summarizer
type AISettings struct {
	Provider string            `yaml:"provider"`
	Model    string            `yaml:"model"`
	BaseURL  string            `yaml:"base_url"`
	Models   []ModelCapability `yaml:"models"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory string        `yaml:"output_directory"`
	SummaryFile     string        `yaml:"summary_file"`
	Fetch           FetchSettings `yaml:"fetch"`
	AI              AISettings    `yaml:"ai"`
	Sources         []Source      `yaml:"sources"`
}

// EnabledSources returns the sources with enabled unset or true
func (s *Settings) EnabledSources() []Source {
	var enabled []Source
	for _, src := range s.Sources {
		if src.IsEnabled() {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// applyDefaults fills in every unset field
func (s *Settings) applyDefaults() {
	if s.OutputDirectory == "" {
		s.OutputDirectory = defaultOutputDirectory
	}
	if s.SummaryFile == "" {
		s.SummaryFile = filepath.Join(s.OutputDirectory, defaultSummaryFilename)
	}
	if s.Fetch.Timeout <= 0 {
		s.Fetch.Timeout = defaultFetchTimeout
	}
	if s.Fetch.UserAgent == "" {
		s.Fetch.UserAgent = defaultUserAgent
	}
	if s.Fetch.RequestDelay < 0 {
		s.Fetch.RequestDelay = 0
	}
	if s.AI.Provider == "" {
		s.AI.Provider = defaultProvider
	}
	s.AI.Provider = strings.ToLower(s.AI.Provider)
	if s.AI.Model == "" {
		s.AI.Model = defaultModel
	}
}

// loadSettings reads and parses the YAML configuration file. A missing file is an error.
func loadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	settings.applyDefaults()
	return &settings, nil
}

// writeDefaultConfig writes the embedded example configuration unless path exists
func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return false, fmt.Errorf("writing default config: %w", err)
	}
	return true, nil
}

// ConfigOverrides allows overriding embedded prompts with file paths
type ConfigOverrides struct {
	SystemPromptPath *string
	UserPromptPath   *string
}

// Prompts holds the summarizer instructions
type Prompts struct {
	System string
	User   string
}

// LoadPrompts returns the embedded prompts, replaced by override files when given
func LoadPrompts(overrides *ConfigOverrides) (Prompts, error) {
	prompts := Prompts{
		System: strings.TrimSpace(defaultSystemPrompt),
		User:   strings.TrimSpace(defaultUserPrompt),
	}
	if overrides == nil {
		return prompts, nil
	}
	if overrides.SystemPromptPath != nil {
		data, err := os.ReadFile(*overrides.SystemPromptPath)
		if err != nil {
			return prompts, fmt.Errorf("reading system prompt %s: %w", *overrides.SystemPromptPath, err)
		}
		prompts.System = strings.TrimSpace(string(data))
	}
	if overrides.UserPromptPath != nil {
		data, err := os.ReadFile(*overrides.UserPromptPath)
		if err != nil {
			return prompts, fmt.Errorf("reading user prompt %s: %w", *overrides.UserPromptPath, err)
		}
		prompts.User = strings.TrimSpace(string(data))
	}
	return prompts, nil
}

// credentialEnvVars lists the recognized API key variables per provider, in lookup order
var credentialEnvVars = map[string][]string{
	"openai":    {"OPENAI_API_KEY", "OPEN_AI_API_KEY"},
	"anthropic": {"ANTHROPIC_API_KEY"},
}

// Credentials are resolved once at startup and passed to the chat provider
type Credentials struct {
	Provider string
	APIKey   string
}

// LoadCredentials resolves the API key from the flag value or the provider's environment variables
func LoadCredentials(provider, flagValue string) (Credentials, error) {
	provider = strings.ToLower(provider)
	names, ok := credentialEnvVars[provider]
	if !ok {
		return Credentials{}, fmt.Errorf("unknown ai provider %q", provider)
	}

	if flagValue != "" {
		return Credentials{Provider: provider, APIKey: flagValue}, nil
	}
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return Credentials{Provider: provider, APIKey: v}, nil
		}
	}
	return Credentials{}, fmt.Errorf("API key required: use --api-key flag or set %s", strings.Join(names, " or "))
}
