package types

import "errors"

// Config holds the settings shared by the CLI, the script runner, and the
// journal backend.
type Config struct {
	DataDir         string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	InitialCapacity int    `json:"initial_capacity" yaml:"initial_capacity" mapstructure:"initial_capacity"`
	LogLevel        string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Journal         bool   `json:"journal" yaml:"journal" mapstructure:"journal"`
}

// Defaults applied when config.yaml leaves a key unset.
const (
	DefaultInitialCapacity = 4
	DefaultLogLevel        = LogLevelInfo
)

// Log levels accepted in config.yaml.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config validation errors.
var (
	ErrCapacityInvalid = errors.New("initial capacity must be positive")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

// knownLogLevels lists the levels that Validate accepts. Empty means info.
var knownLogLevels = map[string]bool{
	"":            true,
	LogLevelDebug: true,
	LogLevelInfo:  true,
	LogLevelWarn:  true,
	LogLevelError: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.InitialCapacity <= 0 {
		return ErrCapacityInvalid
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
