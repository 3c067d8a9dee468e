// Package config loads sanctuary settings from defaults, an optional YAML
// file and SANCTUARY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"sanctuary/internal/blob"
	"sanctuary/internal/housing"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SANCTUARY_BLOB_DRIVER for blob.driver.
const EnvPrefix = "SANCTUARY"

// Config is the fully resolved configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Isolation IsolationConfig `mapstructure:"isolation"`
	Blob      BlobConfig      `mapstructure:"blob"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Report    ReportConfig    `mapstructure:"report"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// IsolationConfig selects how isolation capacity is accounted.
type IsolationConfig struct {
	// Accounting is restore or legacy.
	Accounting string `mapstructure:"accounting"`
}

// BlobConfig picks the report store backend.
type BlobConfig struct {
	Driver string   `mapstructure:"driver"`
	FSRoot string   `mapstructure:"fs_root"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config holds the s3 driver settings. Empty credentials fall back to
// the AWS default chain.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
}

// MetricsConfig names the expvar metrics map.
type MetricsConfig struct {
	// ExpvarName publishes the expvar recorder under a fixed name; empty
	// picks a unique generated one.
	ExpvarName string `mapstructure:"expvar_name"`
}

// TracingConfig turns on OpenTelemetry spans for service operations.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	// Exporter is stdout (spans written to stderr) or none.
	Exporter string `mapstructure:"exporter"`
}

// ReportConfig shapes published census keys.
type ReportConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Log:       LogConfig{Level: "info"},
		Isolation: IsolationConfig{Accounting: string(housing.AccountingRestore)},
		Blob: BlobConfig{
			Driver: string(blob.DriverFilesystem),
			FSRoot: "./sanctuary-reports",
			S3:     S3Config{Region: "us-east-1"},
		},
		Tracing: TracingConfig{Exporter: "stdout"},
		Report:  ReportConfig{Prefix: "census"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("isolation.accounting", d.Isolation.Accounting)
	v.SetDefault("blob.driver", d.Blob.Driver)
	v.SetDefault("blob.fs_root", d.Blob.FSRoot)
	v.SetDefault("blob.s3.bucket", d.Blob.S3.Bucket)
	v.SetDefault("blob.s3.region", d.Blob.S3.Region)
	v.SetDefault("blob.s3.endpoint", d.Blob.S3.Endpoint)
	v.SetDefault("blob.s3.path_style", d.Blob.S3.PathStyle)
	v.SetDefault("blob.s3.access_key_id", "")
	v.SetDefault("blob.s3.secret_access_key", "")
	v.SetDefault("blob.s3.session_token", "")
	v.SetDefault("metrics.expvar_name", d.Metrics.ExpvarName)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("report.prefix", d.Report.Prefix)
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers may bind command-line flags onto it before calling Decode.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when non-empty) on top of the defaults and environment.
func Load(path string) (Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals v and validates the result.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := housing.ParseAccounting(c.Isolation.Accounting); err != nil {
		errs = append(errs, fmt.Errorf("isolation.accounting: %w", err))
	}
	if !blob.Driver(c.Blob.Driver).Valid() {
		errs = append(errs, fmt.Errorf("blob.driver: unknown driver %q", c.Blob.Driver))
	}
	if c.Blob.Driver == string(blob.DriverS3) && c.Blob.S3.Bucket == "" {
		errs = append(errs, errors.New("blob.s3.bucket: required for the s3 driver"))
	}
	switch c.Tracing.Exporter {
	case "stdout", "none":
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter: unknown exporter %q", c.Tracing.Exporter))
	}
	if strings.TrimSpace(c.Report.Prefix) == "" {
		errs = append(errs, errors.New("report.prefix: must not be empty"))
	}
	return errors.Join(errs...)
}

// LogLevel returns the slog level for Log.Level.
func (c Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// Accounting returns the isolation removal accounting mode.
func (c Config) Accounting() housing.Accounting {
	a, err := housing.ParseAccounting(c.Isolation.Accounting)
	if err != nil {
		return housing.AccountingRestore
	}
	return a
}

// BlobStore returns the options for blob.Open.
func (c Config) BlobStore() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.Blob.Driver),
		FSRoot: c.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:          c.Blob.S3.Bucket,
			Region:          c.Blob.S3.Region,
			Endpoint:        c.Blob.S3.Endpoint,
			PathStyle:       c.Blob.S3.PathStyle,
			AccessKeyID:     c.Blob.S3.AccessKeyID,
			SecretAccessKey: c.Blob.S3.SecretAccessKey,
			SessionToken:    c.Blob.S3.SessionToken,
		},
	}
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
