package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	ZoomInfo ZoomInfoConfig `yaml:"zoominfo" mapstructure:"zoominfo"`
	Clay     ClayConfig     `yaml:"clay" mapstructure:"clay"`
	OpenAI   OpenAIConfig   `yaml:"openai" mapstructure:"openai"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ZoomInfoConfig holds primary enrichment API credentials and limits.
type ZoomInfoConfig struct {
	Username    string `yaml:"username" mapstructure:"username"`
	Password    string `yaml:"password" mapstructure:"password"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ClayConfig holds the asynchronous fallback workflow settings. The webhook
// runs behind a gateway with a hard 100s ceiling, so the request timeout and
// the poll window must both stay under it.
type ClayConfig struct {
	WebhookURL         string `yaml:"webhook_url" mapstructure:"webhook_url"`
	TimeoutSecs        int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	PollIntervalSecs   int    `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	MaxPolls           int    `yaml:"max_polls" mapstructure:"max_polls"`
	GatewayCeilingSecs int    `yaml:"gateway_ceiling_secs" mapstructure:"gateway_ceiling_secs"`
}

// OpenAIConfig holds the AI extraction fallback settings.
type OpenAIConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxChars  int    `yaml:"max_chars" mapstructure:"max_chars"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractConfig holds tuned weights for the candidate-scoring fallback.
// The header bonus must dominate plausible font/depth differentials so that
// profile-header text beats sidebar recommendations.
type ExtractConfig struct {
	FontWeight   float64 `yaml:"font_weight" mapstructure:"font_weight"`
	HeaderBonus  float64 `yaml:"header_bonus" mapstructure:"header_bonus"`
	AncestorScan int     `yaml:"ancestor_scan" mapstructure:"ancestor_scan"`
}

// ScrapeConfig configures page fetching.
type ScrapeConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int `yaml:"retries" mapstructure:"retries"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Timeout returns the fallback workflow request timeout.
func (c ClayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// PollInterval returns the fixed interval between job status polls.
func (c ClayConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadfinder.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("zoominfo.base_url", "https://api.zoominfo.com")
	v.SetDefault("zoominfo.timeout_secs", 30)
	v.SetDefault("zoominfo.rate_per_sec", 4)
	v.SetDefault("clay.timeout_secs", 90)
	v.SetDefault("clay.poll_interval_secs", 3)
	v.SetDefault("clay.max_polls", 31)
	v.SetDefault("clay.gateway_ceiling_secs", 100)
	v.SetDefault("openai.enabled", false)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_chars", 8000)
	v.SetDefault("openai.max_tokens", 150)
	v.SetDefault("extract.font_weight", 3.0)
	v.SetDefault("extract.header_bonus", 200.0)
	v.SetDefault("extract.ancestor_scan", 20)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.retries", 1)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the numeric policy: both the webhook request timeout and
// the full poll window must stay under the fallback gateway's hard ceiling.
func (c *Config) Validate() error {
	ceiling := c.Clay.GatewayCeilingSecs
	if c.Clay.TimeoutSecs >= ceiling {
		return eris.Errorf("config: clay timeout %ds must be below gateway ceiling %ds",
			c.Clay.TimeoutSecs, ceiling)
	}
	if c.Clay.PollIntervalSecs*c.Clay.MaxPolls >= ceiling {
		return eris.Errorf("config: poll window %ds (interval %ds x %d polls) must be below gateway ceiling %ds",
			c.Clay.PollIntervalSecs*c.Clay.MaxPolls, c.Clay.PollIntervalSecs, c.Clay.MaxPolls, ceiling)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
