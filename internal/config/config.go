package config

import (
	"fmt"
	"os"
	"strconv"

	"gofriedman/domain/friedman"
	"gofriedman/internal"
	analysis "gofriedman/internal/analysis/friedman"
	"gofriedman/internal/errors"
	"gofriedman/internal/report"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Output   OutputConfig
	Server   ServerConfig
	LogLevel internal.LogLevel
}

// AnalysisConfig holds ranking and post-hoc settings
type AnalysisConfig struct {
	Ascending    bool
	Significance friedman.Significance
}

// OutputConfig holds rendering and ingestion settings
type OutputConfig struct {
	Format report.Format
	Sheet  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LoadDotEnv reads a .env file into the environment when one exists.
// Variables already set take precedence.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}

	outputConfig, err := loadOutputConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load output configuration")
	}

	level, ok := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not one of ERROR, WARN, INFO, DEBUG, TRACE", os.Getenv("LOG_LEVEL")))
	}

	return &Config{
		Analysis: *analysisConfig,
		Output:   *outputConfig,
		Server:   *loadServerConfig(),
		LogLevel: level,
	}, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	ascending, err := getEnvBool("FRIEDMAN_ASCENDING", false)
	if err != nil {
		return nil, err
	}

	alpha, err := getEnvFloat("FRIEDMAN_ALPHA", friedman.Alpha05.Float64())
	if err != nil {
		return nil, err
	}
	significance, err := analysis.ParseSignificance(alpha)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	return &AnalysisConfig{
		Ascending:    ascending,
		Significance: significance,
	}, nil
}

func loadOutputConfig() (*OutputConfig, error) {
	format, err := report.ParseFormat(getEnvOrDefault("FRIEDMAN_OUTPUT", string(report.FormatText)))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return &OutputConfig{
		Format: format,
		Sheet:  getEnvOrDefault("FRIEDMAN_SHEET", "Sheet1"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a number", key, value))
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a boolean", key, value))
	}
	return b, nil
}
