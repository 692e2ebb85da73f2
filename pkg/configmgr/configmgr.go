package configmgr

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/marcodd23/go-micro-sqlite/pkg/validator"
)

const defaultConfigBaseName = "property"

func LoadConfigForEnv(config Config) error {
	return ReadConfiguration(getEnvPropertyFileName(defaultConfigBaseName), config)
}

// LoadConfigFromPathForEnv - search the property-<ENV> properties in the given search path (for ex. "./config" )
func LoadConfigFromPathForEnv(searchPath string, config Config) error {
	if searchPath == "" {
		return LoadConfigForEnv(config)
	}

	searchPath = strings.TrimSuffix(searchPath, "/")
	return ReadConfiguration(getEnvPropertyFileName(fmt.Sprintf("%s/%s", searchPath, defaultConfigBaseName)), config)
}

// LoadDotEnv - load the given .env files (default ".env") into the process environment.
// Missing files are skipped, variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "unable to load env file %s", p)
		}
	}

	return nil
}

// ReadConfiguration reads the configuration from the file and environment variables, then validates it.
func ReadConfiguration(configFilePath string, config Config) error {
	log.Println("config filepath: ", configFilePath)

	v := viper.New()
	v.SetConfigFile(configFilePath) // Specify the file to read
	v.SetConfigType("yaml")         // Specify the config file type (yaml)
	v.AutomaticEnv()                // Enable automatic environment variable binding

	// Replace dots in keys with underscores in environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Attempt to read the configuration file
	if err := v.ReadInConfig(); err == nil {
		log.Printf("Reading configuration from config file: %s\nSet environment variables will OVERRIDE these values, as the environment takes precedent.", configFilePath)
	} else {
		log.Println("No configuration file found, reading configuration from environment variables.")
	}

	// Unmarshal the configuration into the provided struct
	if err := v.Unmarshal(config); err != nil {
		return errors.Wrap(err, "unable to decode into config struct")
	}

	if validationErrors := validator.NewValidator().ValidateStruct(config); len(validationErrors) > 0 {
		return validator.NewValidationError(validationErrors)
	}

	return nil
}

func getEnvPropertyFileName(baseFileName string) string {
	env := strings.ToUpper(os.Getenv("ENVIRONMENT"))
	if !checkIfLocalEnv(env) {
		return fmt.Sprintf("%s-%s.yaml", baseFileName, strings.ToLower(env))
	}

	return fmt.Sprintf("%s.yaml", baseFileName)
}

func checkIfLocalEnv(env string) bool {
	switch strings.ToUpper(env) {
	case "DEV", "STAGE", "PROD":
		return false
	}

	return true
}
