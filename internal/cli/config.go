package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/slots/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "SLOTS"

	cfgKeyDataDir         = "data_dir"
	cfgKeyInitialCapacity = "initial_capacity"
	cfgKeyLogLevel        = "log_level"
	cfgKeyJournal         = "journal"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# slots CLI configuration

# Capacity of the list created by "slots run" when the script does not set one.
initial_capacity: 4

# Log level: debug, info, warn, error.
log_level: info

# Record every selftest and script run in the journal.
journal: true

# Journal directory (optional; overridable by --data-dir and SLOTS_DATA_DIR).
# Relative paths are resolved against this config directory.
# data_dir:
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. Environment variables with the
// SLOTS_ prefix override file values.
func loadConfig(configDir string) (types.Config, error) {
	var cfg types.Config

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return cfg, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return cfg, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyInitialCapacity, types.DefaultInitialCapacity)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyJournal, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
