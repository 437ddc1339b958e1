// Package config loads the application configuration from the environment,
// an optional YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGCS    = "gcs"
	BackendS3     = "s3"
)

// Config is the full application configuration. Field names in the YAML file
// follow the json tags.
type Config struct {
	Port     string `env:"PORT" json:"port"`
	LogLevel string `env:"LOG_LEVEL" json:"logLevel"`

	Storage StorageConfig `json:"storage"`
	Gemini  GeminiConfig  `json:"gemini"`
	Goals   GoalsConfig   `json:"goals"`
	Jobs    JobsConfig    `json:"jobs"`
}

// StorageConfig selects and configures the blob backend for the record store.
type StorageConfig struct {
	Backend    string `env:"STORAGE_BACKEND" json:"backend"`
	SQLitePath string `env:"SQLITE_PATH" json:"sqlitePath"`

	Bucket string `env:"STORAGE_BUCKET" json:"bucket"`
	Prefix string `env:"STORAGE_PREFIX" json:"prefix"`

	GCSCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS" json:"gcsCredentialsFile"`

	S3Region          string `env:"S3_REGION" json:"s3Region"`
	S3Endpoint        string `env:"S3_ENDPOINT" json:"s3Endpoint"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" json:"s3AccessKeyId"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" json:"s3SecretAccessKey"`
}

// GeminiConfig configures the advice service.
type GeminiConfig struct {
	APIKey         string  `env:"GEMINI_API_KEY" json:"apiKey"`
	Model          string  `env:"GEMINI_MODEL" json:"model"`
	TimeoutSeconds int     `env:"GEMINI_TIMEOUT_SECONDS" json:"timeoutSeconds"`
	RatePerMinute  int     `env:"GEMINI_RATE_PER_MINUTE" json:"ratePerMinute"`
	Temperature    float32 `env:"GEMINI_TEMPERATURE" json:"temperature"`
}

// GoalsConfig tunes the emergency fund recommendation.
type GoalsConfig struct {
	EmergencyFundMonths int64   `env:"EMERGENCY_FUND_MONTHS" json:"emergencyFundMonths"`
	EmergencyFundFloor  float64 `env:"EMERGENCY_FUND_FLOOR" json:"emergencyFundFloor"`
}

// JobsConfig sizes the receipt scan queue.
type JobsConfig struct {
	QueueSize int `env:"JOB_QUEUE_SIZE" json:"queueSize"`
	Workers   int `env:"JOB_WORKERS" json:"workers"`
}

// Defaults returns the configuration used for every field left unset.
func Defaults() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "data/family-budget.db",
			S3Region:   "us-east-1",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 60,
			RatePerMinute:  30,
			Temperature:    0.8,
		},
		Goals: GoalsConfig{
			EmergencyFundMonths: 3,
			EmergencyFundFloor:  3000,
		},
		Jobs: JobsConfig{
			QueueSize: 100,
			Workers:   2,
		},
	}
}

// Load starts from Defaults, overlays the optional YAML file at path and then
// the environment (including .env, if present). Only keys present in the file
// and variables that are set override, so explicit zero values are kept. The
// result is validated.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("sqlite path cannot be empty when using sqlite backend"))
		}
	case BackendGCS, BackendS3:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			errs = append(errs, fmt.Errorf("bucket cannot be empty when using %s backend", c.Storage.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend %q: must be one of [%s %s %s %s]",
			c.Storage.Backend, BackendMemory, BackendSQLite, BackendGCS, BackendS3))
	}

	if c.Gemini.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("gemini timeout must be positive"))
	}
	if c.Gemini.RatePerMinute <= 0 {
		errs = append(errs, errors.New("gemini rate per minute must be positive"))
	}
	if c.Goals.EmergencyFundMonths <= 0 {
		errs = append(errs, errors.New("emergency fund months must be positive"))
	}
	if c.Goals.EmergencyFundFloor < 0 {
		errs = append(errs, errors.New("emergency fund floor cannot be negative"))
	}
	if c.Jobs.QueueSize <= 0 || c.Jobs.Workers <= 0 {
		errs = append(errs, errors.New("job queue size and workers must be positive"))
	}

	return errors.Join(errs...)
}

// AdviceEnabled reports whether an API key for the advice service is configured.
func (c *Config) AdviceEnabled() bool {
	return c.Gemini.APIKey != ""
}
