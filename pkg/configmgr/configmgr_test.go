package configmgr_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/configmgr"
	"github.com/marcodd23/go-micro-sqlite/pkg/validator"
	"github.com/marcodd23/go-micro-sqlite/test"
)

// Shared configuration content
var configContent = `
name: "TestApp"
environment: "development"
version: "latest"
logging:
  level: "debug"
database:
  path: "./data/app.db"
  readOnly: false
  createIfMissing: true
  busyTimeoutMillis: 2500
`

type TestConfiguration struct {
	configmgr.BaseConfig `mapstructure:",squash"`
}

func createTestConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write to temp config file: %v", err)
	}

	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	configFilePath := createTestConfigFile(t, configContent)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "TestApp", cfg.GetServiceName())
	assert.Equal(t, "development", cfg.GetEnvironment())
	assert.Equal(t, "latest", cfg.GetVersion())
	assert.True(t, cfg.IsLocalEnvironment())
	assert.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.GetLoggingConfig().Level)

	db := cfg.GetDatabaseConfig()
	require.NotNil(t, db)
	assert.Equal(t, "./data/app.db", db.Path)
	assert.False(t, db.ReadOnly)
	assert.True(t, db.CreateIfMissing)
	assert.Equal(t, 2500, db.BusyTimeoutMillis)
}

func TestEnvVariableOverridesConfig(t *testing.T) {
	configFilePath := createTestConfigFile(t, configContent)

	// Set environment variable to override the database path
	t.Setenv("DATABASE_PATH", ":memory:")

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "TestApp", cfg.GetServiceName())
	require.NotNil(t, cfg.Database)
	assert.Equal(t, ":memory:", cfg.Database.Path) // Expecting overridden value
	assert.Equal(t, 2500, cfg.Database.BusyTimeoutMillis)
}

// TestReadConfiguration_ValidationFailure checks a config breaking its validate tags is rejected field by field.
func TestReadConfiguration_ValidationFailure(t *testing.T) {
	configFilePath := createTestConfigFile(t, `
environment: "PROD"
logging:
  level: "verbose"
database:
  busyTimeoutMillis: -1
`)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.Error(t, err)

	var validationErr *validator.ValidationError
	require.True(t, errors.As(err, &validationErr))

	failed := map[string]string{}
	for _, e := range validationErr.GetErrorsDetails() {
		failed[e.FailedField] = e.Tag
	}

	assert.Equal(t, "required", failed["TestConfiguration.BaseConfig.Name"])
	assert.Equal(t, "oneof", failed["TestConfiguration.BaseConfig.Logging.Level"])
	assert.Equal(t, "required", failed["TestConfiguration.BaseConfig.Database.Path"])
	assert.Equal(t, "gte", failed["TestConfiguration.BaseConfig.Database.BusyTimeoutMillis"])
	assert.False(t, cfg.IsLocalEnvironment())
}

func TestLoadConfigFromPathForEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "property.yaml"), []byte(`name: "local"`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "property-stage.yaml"), []byte(`name: "stage"`), 0o600))

	var local TestConfiguration
	t.Setenv("ENVIRONMENT", "")
	require.NoError(t, configmgr.LoadConfigFromPathForEnv(dir+"/", &local))
	assert.Equal(t, "local", local.GetServiceName())
	assert.Nil(t, local.GetDatabaseConfig())
	assert.NotNil(t, local.GetLoggingConfig())

	var stage TestConfiguration
	t.Setenv("ENVIRONMENT", "STAGE")
	require.NoError(t, configmgr.LoadConfigFromPathForEnv(dir, &stage))
	assert.Equal(t, "stage", stage.GetServiceName())
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MICRO_SQLITE_DOTENV_TEST=from-file\n"), 0o600))

	t.Setenv("MICRO_SQLITE_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("MICRO_SQLITE_DOTENV_TEST"))

	require.NoError(t, configmgr.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv("MICRO_SQLITE_DOTENV_TEST"))
}

// TestLoadExampleConfig loads the configuration shipped with the basic_setup example from the project root.
func TestLoadExampleConfig(t *testing.T) {
	test.ChdirProjectRoot(t)
	t.Setenv("ENVIRONMENT", "")

	var cfg TestConfiguration
	require.NoError(t, configmgr.LoadConfigFromPathForEnv("./examples/basic_setup", &cfg))
	assert.Equal(t, "basic-setup", cfg.GetServiceName())
	require.NotNil(t, cfg.GetDatabaseConfig())
	assert.Equal(t, "./basic_setup.db", cfg.GetDatabaseConfig().Path)
}
