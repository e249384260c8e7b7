package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = "binomci"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for binomci settings.
const envPrefix = "BINOMCI"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default configuration values.
const (
	DefaultMethod      = "wilson"
	DefaultZScore      = 0.0
	DefaultConfidence  = 0.95
	DefaultFormat      = FormatTable
	DefaultPrecision   = 6
	DefaultColor       = true
	DefaultLogLevel    = "info"
	DefaultLogFormat   = LogFormatText
	DefaultSampleRatio = 0.0
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD, ./config and
// $HOME/.config/binomci. Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Estimate: EstimateConfig{
			Method:     DefaultMethod,
			ZScore:     DefaultZScore,
			Confidence: DefaultConfidence,
		},
		Output: OutputConfig{
			Format:    DefaultFormat,
			Precision: DefaultPrecision,
			Color:     DefaultColor,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetryConfig{
			SampleRatio: DefaultSampleRatio,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("estimate.method", DefaultMethod)
	viperCfg.SetDefault("estimate.z_score", DefaultZScore)
	viperCfg.SetDefault("estimate.confidence", DefaultConfidence)

	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.precision", DefaultPrecision)
	viperCfg.SetDefault("output.color", DefaultColor)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.metrics_addr", "")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}
