package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Engine-wide fallbacks applied when a text block does not set its own
// typography and the configuration leaves the defaults empty.
const (
	DefaultFontFace = "Arial"
	DefaultFontSize = 18.0
)

// Interface defines the contract for accessing application configuration,
// which keeps the normalizer and CLI mockable in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Output() OutputConfig
	Batch() BatchConfig

	SetEngineDefaultFontFace(string)
	SetEngineDefaultFontSize(float64)
	SetEngineAllowMasterOverride(bool)
	SetOutputPath(string)
	SetOutputPretty(bool)
	SetBatchConcurrency(int)
}

// Config holds the entire application configuration. Private fields enforce
// access through the Interface getters; decoding goes through fileConfig.
type Config struct {
	logger LoggerConfig
	engine EngineConfig
	output OutputConfig
	batch  BatchConfig
}

// fileConfig is the exported mirror viper decodes into.
type fileConfig struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Batch  BatchConfig  `mapstructure:"batch" yaml:"batch"`
}

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Engine() EngineConfig { return c.engine }
func (c *Config) Output() OutputConfig { return c.output }
func (c *Config) Batch() BatchConfig   { return c.batch }

func (c *Config) SetEngineDefaultFontFace(f string)     { c.engine.DefaultFontFace = f }
func (c *Config) SetEngineDefaultFontSize(s float64)    { c.engine.DefaultFontSize = s }
func (c *Config) SetEngineAllowMasterOverride(b bool)   { c.engine.AllowMasterOverride = b }
func (c *Config) SetOutputPath(p string)                { c.output.Path = p }
func (c *Config) SetOutputPretty(b bool)                { c.output.Pretty = b }
func (c *Config) SetBatchConcurrency(n int)             { c.batch.Concurrency = n }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the terminal colors for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the normalization engine.
type EngineConfig struct {
	DefaultFontFace     string  `mapstructure:"default_font_face" yaml:"default_font_face"`
	DefaultFontSize     float64 `mapstructure:"default_font_size" yaml:"default_font_size"`
	AllowMasterOverride bool    `mapstructure:"allow_master_override" yaml:"allow_master_override"`
}

// OutputConfig controls where and how the normalized tree is written.
type OutputConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// BatchConfig tunes multi-deck normalization runs.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultConfigPath returns the per-user config file location
// (~/.deckforge/config.yaml), falling back to the working directory when the
// home directory cannot be determined.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".deckforge", "config.yaml")
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "deckforge")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Engine --
	v.SetDefault("engine.default_font_face", DefaultFontFace)
	v.SetDefault("engine.default_font_size", DefaultFontSize)
	v.SetDefault("engine.allow_master_override", false)

	// -- Output --
	v.SetDefault("output.path", "")
	v.SetDefault("output.pretty", true)

	// -- Batch --
	v.SetDefault("batch.concurrency", 4)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Cannot happen with pure defaults.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// Load reads the configuration from the given file (or the default location
// when path is empty), layers DECKFORGE_* environment variables over it, and
// validates the result. A missing config file is not an error; defaults
// apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path == "" {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DECKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := &Config{
		logger: raw.Logger,
		engine: raw.Engine,
		output: raw.Output,
		batch:  raw.Batch,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.engine.DefaultFontSize <= 0 {
		return fmt.Errorf("engine.default_font_size must be a positive number")
	}
	if c.batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be a positive integer")
	}
	return nil
}
