package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the service. Values resolve in
// ascending precedence: defaults, YAML file, environment variables.
type Config struct {
	ListenAddr   string `yaml:"listen_addr" json:"listen_addr" env:"EXPENSEFLOW_LISTEN_ADDR"`
	DatabasePath string `yaml:"database_path" json:"database_path" env:"EXPENSEFLOW_DATABASE_PATH"`
	LogLevel     string `yaml:"log_level" json:"log_level" env:"EXPENSEFLOW_LOG_LEVEL"`
	GinMode      string `yaml:"gin_mode" json:"gin_mode" env:"EXPENSEFLOW_GIN_MODE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:   ":8080",
		DatabasePath: "expenseflow.db",
		LogLevel:     "info",
		GinMode:      "release",
	}
}

// Load resolves the configuration. A missing file is not an error; an
// invalid one is. A .env file in the working directory is honored if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := validateSchema(data); err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &cfg, nil
}

// validateSchema checks the YAML document against the embedded JSON schema
// before unmarshalling, so typos fail loudly instead of silently falling
// back to defaults.
func validateSchema(data []byte) error {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert config for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	if !result.Valid() {
		msg := "invalid config:"
		for _, e := range result.Errors() {
			msg += "\n  - " + e.String()
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
