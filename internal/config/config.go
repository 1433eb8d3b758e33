// Package config defines the runtime configuration of the financial backend
// and loads it from a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the financial backend.
type Configuration struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server,omitempty"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database,omitempty"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize     string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout,omitempty"` // seconds

	maxBodySizeBytes int64
}

// DatabaseConfig holds datastore options.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver,omitempty"` // mysql, sqlite
	DSN             string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns" yaml:"maxOpenConns,omitempty"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns" yaml:"maxIdleConns,omitempty"`
	ConnMaxLifetime string `mapstructure:"connMaxLifetime" yaml:"connMaxLifetime,omitempty"` // e.g. 5m
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:          constants.DefaultServerAddress,
			MaxBodySize:      strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
			ShutdownTimeout:  constants.DefaultShutdownTimeoutSeconds,
			maxBodySizeBytes: constants.DefaultMaxBodySizeBytes,
		},
		Database: DatabaseConfig{
			Driver:       constants.DefaultDriver,
			DSN:          constants.DefaultDSN,
			MaxOpenConns: constants.DefaultMaxOpenConns,
			MaxIdleConns: constants.DefaultMaxIdleConns,
		},
	}
}

// LoadConfiguration reads the YAML configuration at configPath. A missing
// file yields the defaults. Environment variables prefixed with FINBACKEND_
// override file values, e.g. FINBACKEND_DATABASE_DSN.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.maxBodySize", d.Server.MaxBodySize)
	v.SetDefault("server.shutdownTimeout", d.Server.ShutdownTimeout)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.maxOpenConns", d.Database.MaxOpenConns)
	v.SetDefault("database.maxIdleConns", d.Database.MaxIdleConns)
	v.SetDefault("database.connMaxLifetime", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
}

func (c *Configuration) normalize() error {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = constants.DefaultShutdownTimeoutSeconds
	}

	size, err := ParseSize(c.Server.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.Server.maxBodySizeBytes = size

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "":
		c.Database.Driver = constants.DefaultDriver
	case constants.DriverMySQL, constants.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q (expected %s or %s)",
			c.Database.Driver, constants.DriverMySQL, constants.DriverSQLite)
	}
	if c.Database.DSN == "" {
		if c.Database.Driver == constants.DriverMySQL {
			return errors.New("database.dsn is required for the mysql driver")
		}
		c.Database.DSN = constants.DefaultDSN
	}
	if _, err := c.Database.Lifetime(); err != nil {
		return err
	}
	return nil
}

// MaxBodySizeBytes returns the configured request body limit in bytes.
func (s ServerConfig) MaxBodySizeBytes() int64 {
	if s.maxBodySizeBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return s.maxBodySizeBytes
}

// ShutdownDuration returns the graceful shutdown bound.
func (s ServerConfig) ShutdownDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// Lifetime parses ConnMaxLifetime; an empty value means no limit.
func (d DatabaseConfig) Lifetime() (time.Duration, error) {
	if strings.TrimSpace(d.ConnMaxLifetime) == "" {
		return 0, nil
	}
	lifetime, err := time.ParseDuration(d.ConnMaxLifetime)
	if err != nil {
		return 0, fmt.Errorf("invalid database.connMaxLifetime %q: %w", d.ConnMaxLifetime, err)
	}
	return lifetime, nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
