// Package cfg loads and validates the predictor configuration from a YAML
// file and/or environment variables.
package cfg

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	InputChannels int
	Recurrent     bool
	Window        int
	Seed          int64
	DataPath      string
	MetricsPort   int
}

type ConfigFile struct {
	Model struct {
		InputChannels int   `yaml:"inputChannels"`
		Recurrent     *bool `yaml:"recurrent"`
		Seed          int64 `yaml:"seed"`
	} `yaml:"model"`

	Indicators struct {
		Window int `yaml:"window"`
	} `yaml:"indicators"`

	System struct {
		DataPath    string `yaml:"dataPath"`
		MetricsPort int    `yaml:"metricsPort"`
	} `yaml:"system"`
}

// Load reads settings from the YAML file named by CONFIG_FILE when set,
// otherwise from environment variables. A .env file in the working
// directory is honored either way.
func Load() (Settings, error) {
	_ = godotenv.Load() // optional .env; missing file is fine

	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	recurrent := true
	if config.Model.Recurrent != nil {
		recurrent = *config.Model.Recurrent
	}

	settings := Settings{
		InputChannels: getIntFromEnvOrConfig("INPUT_CHANNELS", config.Model.InputChannels, 4),
		Recurrent:     getBoolFromEnvOrConfig("RECURRENT", recurrent),
		Window:        getIntFromEnvOrConfig("INDICATOR_WINDOW", config.Indicators.Window, 30),
		Seed:          getInt64FromEnvOrConfig("MODEL_SEED", config.Model.Seed),
		DataPath:      getEnvOrDefault("DATA_PATH", config.System.DataPath),
		MetricsPort:   getIntFromEnvOrConfig("METRICS_PORT", config.System.MetricsPort, 8080),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		InputChannels: getIntOrDefault("INPUT_CHANNELS", 4),
		Recurrent:     getBoolOrDefault("RECURRENT", true),
		Window:        getIntOrDefault("INDICATOR_WINDOW", 30),
		Seed:          getInt64OrDefault("MODEL_SEED", 0),
		DataPath:      os.Getenv("DATA_PATH"), // optional
		MetricsPort:   getIntOrDefault("METRICS_PORT", 8080),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getInt64FromEnvOrConfig(key string, configValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	return configValue
}

func getBoolFromEnvOrConfig(key string, configValue bool) bool {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs range validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.InputChannels < 1 || settings.InputChannels > 64 {
		return fmt.Errorf("input channels must be between 1 and 64, got %d", settings.InputChannels)
	}

	// The indicator engine derives a window/6 moving average, so the base
	// window must be at least 6 for every derived window to be non-zero.
	if settings.Window < 6 || settings.Window > 4096 {
		return fmt.Errorf("indicator window must be between 6 and 4096, got %d", settings.Window)
	}

	if settings.MetricsPort < 1024 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}

	return nil
}
