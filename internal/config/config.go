package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Arxiv        ArxivConfig    `yaml:"arxiv"`
	Search       SearchConfig   `yaml:"search"`
	Notifier     NotifierConfig `yaml:"notifier"`
	History      HistoryConfig  `yaml:"history"`
	Schedule     string         `yaml:"schedule"`
	RunOnStart   bool           `yaml:"run_on_start"`
	WeekdaysOnly bool           `yaml:"weekdays_only"`
	LogLevel     string         `yaml:"log_level"`
}

type ArxivConfig struct {
	Categories []string `yaml:"categories"`
	MaxResults int      `yaml:"max_results"`
}

// SearchConfig holds the keyword policy. Each keyword group must match in
// full (AND); a paper matches when at least one group does (OR).
type SearchConfig struct {
	KeywordGroups  [][]string `yaml:"keyword_groups"`
	SearchTitle    *bool      `yaml:"search_title"`
	SearchAbstract *bool      `yaml:"search_abstract"`
}

// TitleEnabled reports whether titles are searched. Defaults to true when
// the field is absent from the config file.
func (s SearchConfig) TitleEnabled() bool {
	return s.SearchTitle == nil || *s.SearchTitle
}

// AbstractEnabled reports whether abstracts are searched. Defaults to true
// when the field is absent from the config file.
func (s SearchConfig) AbstractEnabled() bool {
	return s.SearchAbstract == nil || *s.SearchAbstract
}

type NotifierConfig struct {
	Type  string      `yaml:"type"`
	Email EmailConfig `yaml:"email"`
}

type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type HistoryConfig struct {
	File string `yaml:"file"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if len(cfg.Arxiv.Categories) == 0 {
		cfg.Arxiv.Categories = []string{"cs.LG"}
	}
	if cfg.Arxiv.MaxResults == 0 {
		cfg.Arxiv.MaxResults = 50
	}
	if cfg.Notifier.Type == "" {
		cfg.Notifier.Type = "stdout"
	}
	if cfg.Notifier.Email.SMTPPort == 0 {
		cfg.Notifier.Email.SMTPPort = 587
	}
	if cfg.History.File == "" {
		cfg.History.File = "sent_papers.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	for i, group := range cfg.Search.KeywordGroups {
		if len(group) == 0 {
			return fmt.Errorf("config: search.keyword_groups[%d] must not be empty (an empty group matches every paper)", i)
		}
		for j, kw := range group {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("config: search.keyword_groups[%d][%d] is blank", i, j)
			}
		}
	}
	switch cfg.Notifier.Type {
	case "stdout", "email":
	default:
		return fmt.Errorf("config: unsupported notifier type %q (supported: stdout, email)", cfg.Notifier.Type)
	}
	if cfg.Notifier.Type == "email" {
		if cfg.Notifier.Email.SMTPHost == "" {
			return fmt.Errorf("config: notifier.email.smtp_host is required for email notifier")
		}
		if cfg.Notifier.Email.From == "" {
			return fmt.Errorf("config: notifier.email.from is required for email notifier")
		}
		if len(cfg.Notifier.Email.To) == 0 {
			return fmt.Errorf("config: notifier.email.to is required for email notifier")
		}
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
