package configmgr

// Config - config interface.
type Config interface {
	GetServiceName() string
	GetVersion() string
	GetEnvironment() string
	GetLoggingConfig() *LoggingConfig
	GetDatabaseConfig() *DatabaseConfig
	IsLocalEnvironment() bool
}

// BaseConfig - app config struct.
// This struct represents the base configuration for the application and is expected to be in the following YAML format:
/*
name: "TestApp"
environment: "development"
version: "1.0"
logging:
  level: "debug"
database:
  path: "./data/app.db"
  readOnly: false
  createIfMissing: true
  busyTimeoutMillis: 5000
*/
type BaseConfig struct {
	Name        string          `mapstructure:"name" validate:"required"`
	Environment string          `mapstructure:"environment"`
	Version     string          `mapstructure:"version"`
	Logging     *LoggingConfig  `mapstructure:"logging"`
	Database    *DatabaseConfig `mapstructure:"database" validate:"omitempty"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DatabaseConfig - embedded database file settings.
// Path accepts a file path, a "file:" URI or ":memory:".
type DatabaseConfig struct {
	Path              string `mapstructure:"path" validate:"required"`
	ReadOnly          bool   `mapstructure:"readOnly"`
	CreateIfMissing   bool   `mapstructure:"createIfMissing"`
	BusyTimeoutMillis int    `mapstructure:"busyTimeoutMillis" validate:"gte=0"`
}

func (cfg BaseConfig) GetServiceName() string {
	return cfg.Name
}

func (cfg BaseConfig) GetVersion() string {
	return cfg.Version
}

func (cfg BaseConfig) GetEnvironment() string {
	return cfg.Environment
}

func (cfg BaseConfig) IsLocalEnvironment() bool {
	return checkIfLocalEnv(cfg.Environment)
}

func (cfg BaseConfig) GetLoggingConfig() *LoggingConfig {
	if cfg.Logging == nil {
		return &LoggingConfig{}
	}

	return cfg.Logging
}

func (cfg BaseConfig) GetDatabaseConfig() *DatabaseConfig {
	return cfg.Database
}
