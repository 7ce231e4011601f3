package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/tokenframe/tokenframe"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Tokenize TokenizeConfig `mapstructure:"tokenize"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Log      LogConfig      `mapstructure:"log"`
}

// TokenizeConfig selects the tokenizer strategy.
type TokenizeConfig struct {
	Spec      string `mapstructure:"spec"`
	MinLength int    `mapstructure:"minLength"`
	Lowercase bool   `mapstructure:"lowercase"`
}

// EngineConfig sizes the chunk fan-out. Workers 0 selects the default.
type EngineConfig struct {
	Workers   int `mapstructure:"workers"`
	ChunkRows int `mapstructure:"chunkRows"`
}

// RemoteConfig tunes analyzer requests.
type RemoteConfig struct {
	TimeoutSeconds      int `mapstructure:"timeoutSeconds"`
	MaxRetries          int `mapstructure:"maxRetries"`
	RetryIntervalMillis int `mapstructure:"retryIntervalMillis"`
}

// LogConfig stores the log level name.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Timeout returns the per-request bound.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// RetryInterval returns the wait between retries.
func (r RemoteConfig) RetryInterval() time.Duration {
	return time.Duration(r.RetryIntervalMillis) * time.Millisecond
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Tokenize.MinLength < 0 {
		result = multierror.Append(result, fmt.Errorf("tokenize.minLength must be >= 0, got %d", c.Tokenize.MinLength))
	}
	if c.Engine.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers))
	}
	if c.Engine.ChunkRows <= 0 {
		result = multierror.Append(result, fmt.Errorf("engine.chunkRows must be > 0, got %d", c.Engine.ChunkRows))
	}
	if c.Remote.TimeoutSeconds < 0 {
		result = multierror.Append(result, fmt.Errorf("remote.timeoutSeconds must be >= 0, got %d", c.Remote.TimeoutSeconds))
	}
	if c.Remote.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("remote.maxRetries must be >= 0, got %d", c.Remote.MaxRetries))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads configuration from file or environment variables.
// A fresh viper instance is used per call so repeated loads do not share
// state.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("tokenize.spec", internal.DefaultSpec)
	v.SetDefault("tokenize.minLength", 0)
	v.SetDefault("tokenize.lowercase", false)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.chunkRows", internal.DefaultChunkRows)
	v.SetDefault("remote.timeoutSeconds", 30)
	v.SetDefault("remote.maxRetries", 0)
	v.SetDefault("remote.retryIntervalMillis", 200)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // tokenize.minLength -> TOKENFRAME_TOKENIZE_MINLENGTH
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
