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
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Stream    StreamConfig    `yaml:"stream" mapstructure:"stream"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DiscoveryConfig configures the paginated business search.
type DiscoveryConfig struct {
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	PageDelaySecs int     `yaml:"page_delay_secs" mapstructure:"page_delay_secs"`
	PageSize      int     `yaml:"page_size" mapstructure:"page_size"`
}

// PageDelay is the pause required before a dependent page fetch.
func (c DiscoveryConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySecs) * time.Second
}

// AuditConfig configures website fetching during audits.
type AuditConfig struct {
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxLinkChecks int    `yaml:"max_link_checks" mapstructure:"max_link_checks"`
}

// Timeout is the per-request HTTP timeout for audit fetches.
func (c AuditConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ScorerConfig configures scoring thresholds and the optional rubric file.
type ScorerConfig struct {
	RubricPath string `yaml:"rubric_path" mapstructure:"rubric_path"`
}

// PipelineConfig configures per-candidate processing.
type PipelineConfig struct {
	ThrottleSecs float64 `yaml:"throttle_secs" mapstructure:"throttle_secs"`
}

// Throttle is the politeness pause applied after each candidate.
func (c PipelineConfig) Throttle() time.Duration {
	return time.Duration(c.ThrottleSecs * float64(time.Second))
}

// StreamConfig configures the streaming dispatcher.
type StreamConfig struct {
	BufferSize      int `yaml:"buffer_size" mapstructure:"buffer_size"`
	PollMillis      int `yaml:"poll_millis" mapstructure:"poll_millis"`
	JoinTimeoutSecs int `yaml:"join_timeout_secs" mapstructure:"join_timeout_secs"`
}

// PollInterval is the consumer's bounded channel wait.
func (c StreamConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMillis) * time.Millisecond
}

// JoinTimeout is the upper bound on waiting for the producer to finish.
func (c StreamConfig) JoinTimeout() time.Duration {
	return time.Duration(c.JoinTimeoutSecs) * time.Second
}

// StoreConfig configures the history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
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

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DISCOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	// An empty default is still needed for AutomaticEnv to bind the key.
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("discovery.rate_limit", 10)
	v.SetDefault("discovery.page_delay_secs", 2)
	v.SetDefault("discovery.page_size", 20)
	v.SetDefault("audit.timeout_secs", 10)
	v.SetDefault("audit.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("audit.max_link_checks", 10)
	v.SetDefault("pipeline.throttle_secs", 1)
	v.SetDefault("stream.buffer_size", 100)
	v.SetDefault("stream.poll_millis", 250)
	v.SetDefault("stream.join_timeout_secs", 300)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "search_history.db")
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	return &cfg, nil
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
