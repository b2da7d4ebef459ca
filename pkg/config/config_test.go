package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  host: localhost
  type: postgres
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "./data", cfg.App.DataDir)
	assert.Equal(t, 10, cfg.Sampler.IntervalMS)
	assert.Equal(t, 1000, cfg.Sampler.CapacityLimit)
	assert.Equal(t, 256, cfg.Sampler.MaxDepth)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
app:
  version: "2.0.0"
  data_dir: "/tmp/data"
database:
  type: postgres
  host: db.example.com
  port: 5432
  database: stackfold
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
sampler:
  interval_ms: 25
  capacity: 500
  output_threshold_ms: 100
  suppressed_functions:
    - runtime.gopark
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "/tmp/data", cfg.App.DataDir)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "stackfold", cfg.Database.Database)
	assert.Equal(t, 25, cfg.Sampler.IntervalMS)
	assert.Equal(t, 500, cfg.Sampler.CapacityLimit)
	assert.Equal(t, 100, cfg.Sampler.OutputThresholdMS)
	assert.Equal(t, []string{"runtime.gopark"}, cfg.Sampler.SuppressedFunctions)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: sqlite
  host: localhost
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

// Note: Storage validation tests moved to internal/storage package.

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: postgres
  host: localhost
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_EmptyHost(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "postgres", Host: ""},
		Storage:  StorageConfig{Type: "local"},
		Sampler:  SamplerConfig{CapacityLimit: 1},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database host is required")
}

func TestValidate_InvalidCapacity(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "postgres", Host: "localhost"},
		Storage:  StorageConfig{Type: "local"},
		Sampler:  SamplerConfig{CapacityLimit: 0},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "capacity must be at least 1")
}

func TestValidate_RemoteEnabledRequiresURL(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "postgres", Host: "localhost"},
		Storage:  StorageConfig{Type: "local"},
		Sampler:  SamplerConfig{CapacityLimit: 1},
		Remote:   RemoteConfig{Enabled: true},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "remote.url is required")
}

func TestRecordDir(t *testing.T) {
	cfg := &Config{App: AppConfig{DataDir: "/tmp/data"}}

	assert.Equal(t, "/tmp/data/worker-loop", cfg.RecordDir("worker-loop"))
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "app", "data")

	cfg := &Config{App: AppConfig{DataDir: dataDir}}

	err := cfg.EnsureDataDir()
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
database:
  type: mysql
  host: mysql.local
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
