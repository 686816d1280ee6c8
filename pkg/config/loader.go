package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// configName is the searched config file name, without extension.
	configName = ".bfcheck"
	configType = "yaml"

	// envPrefix prefixes every setting override, e.g. BFCHECK_BFILE_REQUIRE_HEADER.
	envPrefix       = "BFCHECK"
	envKeySeparator = "_"

	// ConfigEnvVar names a config file when no explicit path is given.
	ConfigEnvVar = "BFCHECK_CONFIG"
)

// LoadConfig resolves settings from defaults, an optional YAML file and
// BFCHECK_* environment variables, in increasing priority.
//
// The file is configPath when set, then $BFCHECK_CONFIG, then .bfcheck.yaml
// in the working directory or $HOME. Only an explicitly named file must
// exist. Config.Source records the file that was read.
func LoadConfig(configPath string) (*Config, error) {
	settings := newSettings()

	explicit := locateConfig(settings, configPath)

	readErr := settings.ReadInConfig()
	if readErr != nil && (explicit || !isNotFound(readErr)) {
		return nil, fmt.Errorf("read config: %w", readErr)
	}

	var cfg Config

	unmarshalErr := settings.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	cfg.Source = settings.ConfigFileUsed()
	if readErr != nil {
		cfg.Source = ""
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config %s: %w", cfg.describeSource(), validateErr)
	}

	return &cfg, nil
}

func newSettings() *viper.Viper {
	settings := viper.New()

	applyDefaults(settings)

	settings.SetConfigType(configType)
	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	settings.AutomaticEnv()

	return settings
}

// locateConfig points settings at the config file and reports whether the
// file was named explicitly.
func locateConfig(settings *viper.Viper, configPath string) bool {
	if configPath == "" {
		configPath = os.Getenv(ConfigEnvVar)
	}

	if configPath != "" {
		settings.SetConfigFile(configPath)

		return true
	}

	settings.SetConfigName(configName)
	settings.AddConfigPath(".")

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		settings.AddConfigPath(home)
	}

	return false
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound)
}

func applyDefaults(settings *viper.Viper) {
	settings.SetDefault("bfile.require_header", DefaultRequireHeader)
	settings.SetDefault("bfile.max_file_size", DefaultMaxFileSize)

	settings.SetDefault("benchmark.threshold", DefaultThreshold)

	settings.SetDefault("output.format", DefaultOutputFormat)

	settings.SetDefault("logging.level", DefaultLogLevel)
	settings.SetDefault("logging.json", DefaultLogJSON)

	settings.SetDefault("observability.metrics_file", DefaultMetricsFile)
	settings.SetDefault("observability.otlp_endpoint", DefaultOTLPEndpoint)
	settings.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	settings.SetDefault("observability.otlp_headers", DefaultOTLPHeaders)
	settings.SetDefault("observability.environment", DefaultEnvironment)
}
