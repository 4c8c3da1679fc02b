// Package config loads runtime settings from defaults, an optional
// girvan.yaml file, GIRVAN_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/source"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/validation"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. GIRVAN_SERVER_PORT.
	EnvPrefix = "GIRVAN"
	// FileName is the config file base name searched for when none is given.
	FileName = "girvan"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	Auth            AuthConfig    `mapstructure:"auth"`
}

// AuthConfig enables bearer tokens on reload and step when Secret is set.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret" validate:"omitempty,min=32"`
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// Enabled reports whether a signing secret is configured
func (a AuthConfig) Enabled() bool {
	return a.Secret != ""
}

// WatchConfig controls reloading when the source file changes.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

// LayoutConfig controls positions assigned to nodes without coordinates.
type LayoutConfig struct {
	FillMissing bool    `mapstructure:"fill_missing"`
	Algorithm   string  `mapstructure:"algorithm" validate:"oneof=circular force"`
	Width       float64 `mapstructure:"width" validate:"gt=0"`
	Height      float64 `mapstructure:"height" validate:"gt=0"`
	Padding     float64 `mapstructure:"padding" validate:"gte=0"`
	Iterations  int     `mapstructure:"iterations" validate:"gte=0"`
	Seed        int64   `mapstructure:"seed"`
}

// AWSConfig holds settings for s3:// sources. Empty values fall back to the
// AWS SDK defaults (AWS_* environment, shared config, instance roles).
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// SourceOptions converts the AWS settings for pkg/source.
func (c *Config) SourceOptions() source.AWSOptions {
	return source.AWSOptions{
		Region:          c.AWS.Region,
		Profile:         c.AWS.Profile,
		Endpoint:        c.AWS.Endpoint,
		AccessKeyID:     c.AWS.AccessKeyID,
		SecretAccessKey: c.AWS.SecretAccessKey,
	}
}

// Config holds all runtime configuration.
type Config struct {
	Source   string `mapstructure:"source" validate:"required"`
	TopEdges int    `mapstructure:"top_edges" validate:"gte=0"`

	// RecomputeTimeout bounds one load-parse-step build. Zero disables it.
	RecomputeTimeout time.Duration `mapstructure:"recompute_timeout" validate:"gte=0"`

	Server ServerConfig `mapstructure:"server"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Log    LogConfig    `mapstructure:"log"`
	Layout LayoutConfig `mapstructure:"layout"`
	AWS    AWSConfig    `mapstructure:"aws"`
}

// SetDefaults registers every key with its default. Keys must be known to
// viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", "data/samplenetwork.txt")
	v.SetDefault("top_edges", 10)
	v.SetDefault("recompute_timeout", "2m")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.max_body_bytes", 4<<20)
	v.SetDefault("server.auth.secret", "")
	v.SetDefault("server.auth.token_ttl", "24h")
	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", "250ms")
	v.SetDefault("log.level", "info")
	v.SetDefault("layout.fill_missing", true)
	v.SetDefault("layout.algorithm", "circular")
	v.SetDefault("layout.width", 800.0)
	v.SetDefault("layout.height", 600.0)
	v.SetDefault("layout.padding", 50.0)
	v.SetDefault("layout.iterations", 50)
	v.SetDefault("layout.seed", 1)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads path, or searches for girvan.yaml in the working and home
// directories when path is empty. Only an explicitly named file is required
// to exist.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validation.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
