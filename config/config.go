package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type Config struct {
	Credentials  models.Credentials
	LLM          LLMConfig
	Review       ReviewConfig
	LinkedIn     LinkedInConfig
	Remote       RemoteConfig
	Notify       NotifyConfig
	Store        StoreConfig
	LinearAPIKey string
	Port         string
	LogLevel     string
}

type LLMConfig struct {
	Provider     string
	Model        string
	APIURL       string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	HashtagCount int
}

// KeyEnv is the environment variable the API key for this provider is read from.
func (c LLMConfig) KeyEnv() string {
	switch c.Provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return "LLM_API_KEY"
	}
}

type ReviewConfig struct {
	MinChars            int
	MaxChars            int
	MaxAvgSentenceWords float64
	BannedTerms         []string
}

type LinkedInConfig struct {
	APIURL  string
	Timeout time.Duration
}

type RemoteConfig struct {
	GeneratorFunction string
	GeneratorURL      string
	Timeout           time.Duration
	Region            string
}

type NotifyConfig struct {
	SNSTopic     string
	SlackToken   string
	SlackChannel string
}

type StoreConfig struct {
	DatabaseURL string
	SQLitePath  string
}

var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-5-20250929",
}

// LoadConfig loads configuration from environment variables and, when path is
// not empty, a YAML config file. A .env file in the working directory is
// loaded first if it exists; variables already set in the environment win.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	provider := strings.ToLower(v.GetString("llm.provider"))
	model := v.GetString("llm.model")
	if model == "" {
		model = defaultModels[provider]
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider:     provider,
			Model:        model,
			APIURL:       v.GetString("llm.api_url"),
			Temperature:  v.GetFloat64("llm.temperature"),
			MaxTokens:    v.GetInt("llm.max_tokens"),
			Timeout:      v.GetDuration("llm.timeout"),
			HashtagCount: v.GetInt("llm.hashtag_count"),
		},
		Review: ReviewConfig{
			MinChars:            v.GetInt("review.min_chars"),
			MaxChars:            v.GetInt("review.max_chars"),
			MaxAvgSentenceWords: v.GetFloat64("review.max_avg_sentence_words"),
			BannedTerms:         splitList(v.Get("review.banned_terms")),
		},
		LinkedIn: LinkedInConfig{
			APIURL:  v.GetString("linkedin.api_url"),
			Timeout: v.GetDuration("linkedin.timeout"),
		},
		Remote: RemoteConfig{
			GeneratorFunction: v.GetString("remote.generator_function"),
			GeneratorURL:      v.GetString("remote.generator_url"),
			Timeout:           v.GetDuration("remote.timeout"),
			Region:            v.GetString("remote.region"),
		},
		Notify: NotifyConfig{
			SNSTopic:     v.GetString("notify.sns_topic"),
			SlackToken:   v.GetString("notify.slack_token"),
			SlackChannel: v.GetString("notify.slack_channel"),
		},
		Store: StoreConfig{
			DatabaseURL: v.GetString("store.database_url"),
			SQLitePath:  v.GetString("store.sqlite_path"),
		},
		LinearAPIKey: v.GetString("linear.api_key"),
		Port:         v.GetString("server.port"),
		LogLevel:     v.GetString("log_level"),
	}

	cfg.Credentials = models.Credentials{
		APIKey:      v.GetString("credentials." + strings.ToLower(cfg.LLM.KeyEnv())),
		AccessToken: v.GetString("credentials.access_token"),
		AuthorID:    v.GetString("credentials.author_sub"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.hashtag_count", 5)
	v.SetDefault("review.min_chars", 200)
	v.SetDefault("review.max_chars", 3000)
	v.SetDefault("review.max_avg_sentence_words", 25)
	v.SetDefault("review.banned_terms", []string{})
	v.SetDefault("linkedin.api_url", "https://api.linkedin.com")
	v.SetDefault("linkedin.timeout", "30s")
	v.SetDefault("remote.generator_function", "ContentGenerator")
	v.SetDefault("remote.timeout", "60s")
	v.SetDefault("server.port", "3000")
	v.SetDefault("log_level", "info")
}

// bindEnv maps config keys onto the exact environment variable names used by
// the deployed functions, several of which are lower case.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"credentials.openai_api_key":    {"OPENAI_API_KEY"},
		"credentials.anthropic_api_key": {"ANTHROPIC_API_KEY"},
		"credentials.llm_api_key":       {"LLM_API_KEY"},
		"credentials.access_token":      {"access_token"},
		"credentials.author_sub":        {"author_sub"},
		"llm.provider":                  {"LLM_PROVIDER"},
		"llm.model":                     {"LLM_MODEL", "OPENAI_MODEL"},
		"llm.api_url":                   {"LLM_API_URL"},
		"llm.timeout":                   {"LLM_TIMEOUT"},
		"review.banned_terms":           {"REVIEW_BANNED_TERMS"},
		"remote.generator_function":     {"GENERATOR_FUNCTION"},
		"remote.generator_url":          {"GENERATOR_URL"},
		"remote.timeout":                {"GENERATOR_TIMEOUT"},
		"remote.region":                 {"AWS_REGION"},
		"notify.sns_topic":              {"NOTIFICATION_SNS_TOPIC"},
		"notify.slack_token":            {"SLACK_BOT_TOKEN"},
		"notify.slack_channel":          {"SLACK_CHANNEL"},
		"store.database_url":            {"DATABASE_URL"},
		"store.sqlite_path":             {"SQLITE_PATH"},
		"linear.api_key":                {"LINEAR_API_KEY"},
		"server.port":                   {"PORT"},
		"log_level":                     {"LOG_LEVEL"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// ValidateForGeneration checks what the generator needs: the LLM API key.
func (c *Config) ValidateForGeneration() error {
	if missing := c.Credentials.MissingForGeneration(c.LLM.KeyEnv()); len(missing) > 0 {
		return &models.ConfigurationError{Missing: missing}
	}
	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}
	return nil
}

// ValidateForPublishing checks the LinkedIn access token and author id.
func (c *Config) ValidateForPublishing() error {
	if missing := c.Credentials.MissingForPublishing(); len(missing) > 0 {
		return &models.ConfigurationError{Missing: missing}
	}
	return nil
}

// Validate checks everything a local generate-review-publish cycle needs.
func (c *Config) Validate() error {
	missing := append(c.Credentials.MissingForGeneration(c.LLM.KeyEnv()), c.Credentials.MissingForPublishing()...)
	if len(missing) > 0 {
		return &models.ConfigurationError{Missing: missing}
	}
	return c.ValidateForGeneration()
}

// splitList accepts both YAML lists and a single comma separated env value.
// Terms may contain spaces, so a string is split on commas only.
func splitList(raw any) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	}

	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
