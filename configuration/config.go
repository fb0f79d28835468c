package configuration

import (
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"stackforge/errors"
)

const (
	packageName = "configuration"
)

// Config holds the application configuration
type Config struct {
	StackPath       string
	StatePath       string
	AWSRegion       string
	AcessKeyID      string
	AccessSecret    string
	LocalstackURL   string
	LogLevel        string
	MaxRetries      int
	RetryDelay      int
	ApplyTimeout    int
	ASGDrainTimeout int
	ASGPollInterval int
}

// Initialize sets up the configuration system
func Initialize() (*Config, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "Initialize"),
	)

	// Set default values
	viper.SetDefault("STACK_PATH", "stack.hcl")
	viper.SetDefault("STATE_PATH", "stackforge.state.json")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RETRY_DELAY_SECONDS", 5)
	viper.SetDefault("APPLY_TIMEOUT_MINUTES", 30)
	viper.SetDefault("ASG_DRAIN_TIMEOUT_SECONDS", 300)
	viper.SetDefault("ASG_POLL_INTERVAL_SECONDS", 10)

	// Configure Viper to read from environment
	viper.AutomaticEnv()

	// Read from .env file
	viper.SetConfigFile(".env")
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, errors.New(errors.ErrConfigParse, "error reading config file",
				map[string]interface{}{
					"config_file": ".env",
				}, err)
		}
		logger.Info("No .env file found, using environment variables and defaults",
			zap.String("operation", "config_loading"),
		)
	}

	// Validate paths
	stackPath := viper.GetString("STACK_PATH")
	if stackPath == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid STACK_PATH",
			map[string]interface{}{
				"config_key": "STACK_PATH",
			}, nil)
	}
	logger.Info("Stack manifest path configured",
		zap.String("path", stackPath),
		zap.String("operation", "config_validation"),
	)

	statePath := viper.GetString("STATE_PATH")
	if statePath == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid STATE_PATH",
			map[string]interface{}{
				"config_key": "STATE_PATH",
			}, nil)
	}
	logger.Info("State ledger path configured",
		zap.String("path", statePath),
		zap.String("operation", "config_validation"),
	)

	// Validate retry settings
	maxRetries := viper.GetInt("MAX_RETRIES")
	if maxRetries < 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid MAX_RETRIES",
			map[string]interface{}{
				"config_key": "MAX_RETRIES",
				"value":      maxRetries,
			}, nil)
	}

	retryDelay := viper.GetInt("RETRY_DELAY_SECONDS")
	if retryDelay <= 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid RETRY_DELAY_SECONDS",
			map[string]interface{}{
				"config_key": "RETRY_DELAY_SECONDS",
				"value":      retryDelay,
			}, nil)
	}

	applyTimeout := viper.GetInt("APPLY_TIMEOUT_MINUTES")
	if applyTimeout <= 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid APPLY_TIMEOUT_MINUTES",
			map[string]interface{}{
				"config_key": "APPLY_TIMEOUT_MINUTES",
				"value":      applyTimeout,
			}, nil)
	}

	drainTimeout := viper.GetInt("ASG_DRAIN_TIMEOUT_SECONDS")
	if drainTimeout <= 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid ASG_DRAIN_TIMEOUT_SECONDS",
			map[string]interface{}{
				"config_key": "ASG_DRAIN_TIMEOUT_SECONDS",
				"value":      drainTimeout,
			}, nil)
	}

	pollInterval := viper.GetInt("ASG_POLL_INTERVAL_SECONDS")
	if pollInterval <= 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid ASG_POLL_INTERVAL_SECONDS",
			map[string]interface{}{
				"config_key": "ASG_POLL_INTERVAL_SECONDS",
				"value":      pollInterval,
			}, nil)
	}

	logger.Info("Retry settings configured",
		zap.Int("max_retries", maxRetries),
		zap.Int("retry_delay_seconds", retryDelay),
		zap.String("operation", "config_validation"),
	)

	config := &Config{
		StackPath:       stackPath,
		StatePath:       statePath,
		AWSRegion:       viper.GetString("AWS_REGION"),
		AccessSecret:    viper.GetString("AWS_SECRET_ACCESS_KEY"),
		AcessKeyID:      viper.GetString("AWS_ACCESS_KEY_ID"),
		LocalstackURL:   viper.GetString("LOCALSTACK_URL"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		MaxRetries:      maxRetries,
		RetryDelay:      retryDelay,
		ApplyTimeout:    applyTimeout,
		ASGDrainTimeout: drainTimeout,
		ASGPollInterval: pollInterval,
	}

	logger.Info("Configuration loaded successfully",
		zap.String("operation", "config_complete"),
	)
	return config, nil
}
