package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values applied when the config file leaves a key unset.
const (
	DefaultModel            = "gpt-4o-mini"
	DefaultBaseURL          = "https://api.openai.com/v1"
	DefaultMaxIterations    = 3
	DefaultSummaryThreshold = 2
	DefaultTemperature      = 0.0
	DefaultSummaryMaxTokens = 150
	DefaultGmailQuery       = "has:attachment filename:ics in:inbox"
	DefaultMaxResults       = 10
	DefaultProcessedLabel   = "Processed"
	DefaultPollingInterval  = 10 * time.Minute
	DefaultMetricsAddr      = ":9090"
)

// LLM configures the language model calls made by the core.
type LLM struct {
	// Model is the opaque model identifier sent with every request.
	Model string
	// BaseURL is the OpenAI-compatible API endpoint.
	BaseURL string
	// APIKey authenticates requests; usually supplied via MEETPREP_LLM_API_KEY
	// or a .env file rather than the config file.
	APIKey string
	// Temperature controls task-generation response variability, in [0,1].
	// Classification and summarization always run at temperature 0.
	Temperature float64
	// MaxIterations bounds the human-feedback refinement loop (>= 1).
	MaxIterations int
	// ModificationSummaryThreshold is the feedback-log length at which
	// accumulated feedback is condensed before a run's first draft (>= 1).
	ModificationSummaryThreshold int
	// SummaryMaxTokens caps attachment and feedback summaries.
	SummaryMaxTokens int
}

// Gmail configures mailbox access.
type Gmail struct {
	Account        string
	Query          string
	MaxResults     int64
	ProcessedLabel string
}

// Polling configures the mailbox polling loop.
type Polling struct {
	Interval time.Duration
}

// Store configures feedback persistence.
type Store struct {
	// Path of the modification-log file. Empty means
	// <user config dir>/meetprep/modifications.json.
	Path string
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	Enabled bool
	Addr    string
}

// Config is the complete meetprep configuration.
type Config struct {
	LogLevel string
	LLM      LLM
	Gmail    Gmail
	Polling  Polling
	Store    Store
	Metrics  Metrics
}

// Load reads the configuration from path (or the default location when path
// is empty), merges environment overrides and validates the result. A .env
// file in the working directory is loaded first so MEETPREP_LLM_API_KEY can
// live there.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only exists on developer machines.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigDir())
	}

	v.SetEnvPrefix("MEETPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		// Without an explicit --config a missing file is fine: defaults plus
		// environment variables are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		LLM: LLM{
			Model:                        v.GetString("llm.model"),
			BaseURL:                      v.GetString("llm.base_url"),
			APIKey:                       v.GetString("llm.api_key"),
			Temperature:                  v.GetFloat64("llm.temperature"),
			MaxIterations:                v.GetInt("llm.max_iterations"),
			ModificationSummaryThreshold: v.GetInt("llm.modification_summary_threshold"),
			SummaryMaxTokens:             v.GetInt("llm.summary_max_tokens"),
		},
		Gmail: Gmail{
			Account:        v.GetString("gmail.account"),
			Query:          v.GetString("gmail.query"),
			MaxResults:     v.GetInt64("gmail.max_results"),
			ProcessedLabel: v.GetString("gmail.processed_label"),
		},
		Polling: Polling{
			Interval: v.GetDuration("polling.interval"),
		},
		Store: Store{
			Path: v.GetString("store.path"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("metrics.enabled"),
			Addr:    v.GetString("metrics.addr"),
		},
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(defaultConfigDir(), "modifications.json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric invariants of the core configuration.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.LLM.MaxIterations < 1 {
		return fmt.Errorf("llm.max_iterations must be >= 1, got %d", c.LLM.MaxIterations)
	}
	if c.LLM.ModificationSummaryThreshold < 1 {
		return fmt.Errorf("llm.modification_summary_threshold must be >= 1, got %d", c.LLM.ModificationSummaryThreshold)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be in [0,1], got %g", c.LLM.Temperature)
	}
	if c.Gmail.MaxResults < 1 {
		return fmt.Errorf("gmail.max_results must be >= 1, got %d", c.Gmail.MaxResults)
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive, got %s", c.Polling.Interval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_iterations", DefaultMaxIterations)
	v.SetDefault("llm.modification_summary_threshold", DefaultSummaryThreshold)
	v.SetDefault("llm.summary_max_tokens", DefaultSummaryMaxTokens)
	v.SetDefault("gmail.account", "default")
	v.SetDefault("gmail.query", DefaultGmailQuery)
	v.SetDefault("gmail.max_results", DefaultMaxResults)
	v.SetDefault("gmail.processed_label", DefaultProcessedLabel)
	v.SetDefault("polling.interval", DefaultPollingInterval)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", DefaultMetricsAddr)
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "meetprep")
	}
	return "."
}
