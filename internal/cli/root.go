// Package cli implements the slots command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/internal/logging"
	"github.com/mesh-intelligence/slots/internal/paths"
	"github.com/mesh-intelligence/slots/pkg/sqlite"
	"github.com/mesh-intelligence/slots/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one invocation of the root command.
type app struct {
	flags     rootFlags
	configDir string
	config    types.Config
	logger    *zap.Logger
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are usage errors from cobra.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "slots" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "slots",
		Short: "Exercise and inspect a growable contiguous list",
		Long: "slots runs the contiguous list self-test, executes operation scripts\n" +
			"against the list, and keeps a journal of every run.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: ./.slots if present, else the platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "journal data directory (default: the platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newSelftestCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newForgetCmd(a))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// setup resolves directories, loads config.yaml, and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, configDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid config in %s: %w", configDir, err))
	}

	logger, err := logging.New(cfg.LogLevel, a.flags.verbose)
	if err != nil {
		return sysError(err)
	}

	a.configDir = configDir
	a.config = cfg
	a.logger = logger
	a.logger.Debug("config loaded",
		zap.String("config_dir", configDir),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("initial_capacity", cfg.InitialCapacity),
		zap.Bool("journal", cfg.Journal))
	return nil
}

// openJournal attaches a journal to the configured data directory. The
// caller must Detach it.
func (a *app) openJournal() (types.Journal, error) {
	j := sqlite.NewJournal(a.logger)
	if err := j.Attach(a.config); err != nil {
		return nil, sysError(fmt.Errorf("attach journal: %w", err))
	}
	return j, nil
}

// record saves run to the journal when journaling is enabled and returns
// the run ID, or "" when journaling is off.
func (a *app) record(run *types.Run) (string, error) {
	if !a.config.Journal {
		return "", nil
	}
	j, err := a.openJournal()
	if err != nil {
		return "", err
	}
	defer j.Detach()

	id, err := j.SaveRun(run)
	if err != nil {
		return "", sysError(fmt.Errorf("save run: %w", err))
	}
	return id, nil
}
