// Package config loads blobkit configuration from YAML files and
// environment variables.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (BLOBKIT_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/blobkit/blobkit/internal/logger"
)

// Config represents the blobkit configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging logger.Config `mapstructure:"logging"`

	// Backends declares the named storage backends. Orchestration layers
	// typically declare at least a "cache" and a "store" entry.
	Backends map[string]BackendConfig `mapstructure:"backends" validate:"required,min=1,dive"`
}

// BackendConfig declares one storage backend.
type BackendConfig struct {
	// Type selects the backend implementation.
	// Valid values: fs, s3, memory
	Type string `mapstructure:"type" validate:"required,oneof=fs s3 memory"`

	// FS configures a filesystem backend (Type "fs").
	FS FSBackend `mapstructure:"fs"`

	// S3 configures an S3 backend (Type "s3").
	S3 S3Backend `mapstructure:"s3"`
}

// FSBackend configures a filesystem backend.
type FSBackend struct {
	// Root is the directory the backend is confined to. Required for fs.
	Root string `mapstructure:"root"`

	// Prefix is an optional subdirectory under Root, reflected in URLs.
	Prefix string `mapstructure:"prefix"`

	// Host is an optional URL prefix (e.g. "//cdn.example").
	Host string `mapstructure:"host"`

	// FileMode and DirMode are octal permission strings (e.g. "0644").
	// Empty means the backend defaults.
	FileMode string `mapstructure:"file_mode" validate:"omitempty,numeric"`
	DirMode  string `mapstructure:"dir_mode" validate:"omitempty,numeric"`

	// Clean controls empty-directory cleanup after deletions.
	// Default: true
	Clean *bool `mapstructure:"clean"`
}

// S3Backend configures an S3 backend.
type S3Backend struct {
	Bucket         string `mapstructure:"bucket"`
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	KeyPrefix      string `mapstructure:"key_prefix"`
	Host           string `mapstructure:"host"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// Load reads configuration from the given file path. An empty path searches
// for blobkit.yaml in the working directory and /etc/blobkit. Environment
// variables (BLOBKIT_LOGGING_LEVEL, ...) override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("blobkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/blobkit")
	}

	v.SetEnvPrefix("BLOBKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for name, b := range c.Backends {
		switch b.Type {
		case "fs":
			if b.FS.Root == "" {
				return fmt.Errorf("backend %q: fs.root is required", name)
			}
		case "s3":
			if b.S3.Bucket == "" {
				return fmt.Errorf("backend %q: s3.bucket is required", name)
			}
		}
	}

	return nil
}

// ParseMode parses an octal permission string ("0644"). Empty input yields
// zero, meaning the backend default.
func ParseMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid permission mode %q: %w", s, err)
	}
	return os.FileMode(mode), nil
}
