package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Defaults(), *cfg)
	assert.False(t, cfg.AdviceEnabled())
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := writeFile(t, `
port: "9090"
storage:
  backend: memory
goals:
  emergencyFundFloor: 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 5000.0, cfg.Goals.EmergencyFundFloor)
	assert.Equal(t, int64(3), cfg.Goals.EmergencyFundMonths)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoad_EnvOverFile(t *testing.T) {
	path := writeFile(t, `
port: "9090"
gemini:
  model: from-file
`)
	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-file", cfg.Gemini.Model)
	assert.True(t, cfg.AdviceEnabled())
}

func TestLoad_ExplicitZeroValuesKept(t *testing.T) {
	t.Setenv("EMERGENCY_FUND_FLOOR", "0")
	t.Setenv("GEMINI_TEMPERATURE", "0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Goals.EmergencyFundFloor)
	assert.Equal(t, float32(0), cfg.Gemini.Temperature)
	assert.Equal(t, int64(3), cfg.Goals.EmergencyFundMonths)
}

func TestLoad_FileZeroValuesKept(t *testing.T) {
	path := writeFile(t, `
gemini:
  temperature: 0
goals:
  emergencyFundFloor: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Goals.EmergencyFundFloor)
	assert.Equal(t, float32(0), cfg.Gemini.Temperature)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("JOB_WORKERS", "many")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "ftp" },
			wantErr: []string{`invalid storage backend "ftp"`},
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.SQLitePath = " " },
			wantErr: []string{"sqlite path cannot be empty"},
		},
		{
			name:    "gcs without bucket",
			mutate:  func(c *Config) { c.Storage.Backend = BackendGCS },
			wantErr: []string{"bucket cannot be empty when using gcs backend"},
		},
		{
			name: "multiple problems reported together",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendS3
				c.Gemini.TimeoutSeconds = 0
				c.Goals.EmergencyFundFloor = -1
			},
			wantErr: []string{
				"bucket cannot be empty when using s3 backend",
				"gemini timeout must be positive",
				"emergency fund floor cannot be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
