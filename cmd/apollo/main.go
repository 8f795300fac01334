// Command apollo is Apollo's CLI: library scanning/import, querying,
// playlist management, the HTTP/JSON facade, and configuration
// management.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/config"
	"github.com/ariejan/apollo/internal/logging"
	"github.com/ariejan/apollo/internal/storage"
)

var version = "0.1.0"

// globalFlags holds --config/--library, persistent across every subcommand.
type globalFlags struct {
	configPath string
	libraryDB string
}

func main() {
	flags := &globalFlags{}
	root := newRootCmd(flags)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use: "apollo",
		Short: "Apollo is an audio library manager",
		Version: version,
		SilenceUsage: true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (default: OS config dir)")
	root.PersistentFlags().StringVar(&flags.libraryDB, "library", "", "path to the library database (overrides config)")

	root.AddCommand(
		newInitCmd(flags),
		newImportCmd(flags),
		newListCmd(flags),
		newQueryCmd(flags),
		newWebCmd(flags),
		newStatsCmd(flags),
		newConfigCmd(flags),
		newDuplicatesCmd(flags),
		newOrganizeCmd(flags),
		newPlaylistCmd(flags),
	)
	return root
}

// userError marks an error as exit code 1 (bad input/usage). Errors not
// wrapped in userError exit 2.
type userError struct{ err error }

func (e *userError) Error() string { return e.err.Error() }
func (e *userError) Unwrap() error { return e.err }

func userErrf(format string, args ...any) error {
	return &userError{err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) int {
	var ue *userError
	if asUserError(err, &ue) {
		return 1
	}
	return 2
}

func asUserError(err error, target **userError) bool {
	for err != nil {
		if ue, ok := err.(*userError); ok {
			*target = ue
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// loadConfig resolves flags.configPath (falling back to
// config.DefaultPath), loads it, and applies a --library override.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.libraryDB != "" {
		cfg.Library.Database = flags.libraryDB
	}
	return cfg, nil
}

// newLogger sets up the rotating log file named by cfg.Paths.LogDir. The
// returned closer must be deferred by the caller for the lifetime of the
// command.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, f, err := logging.Setup(config.ExpandPath(cfg.Paths.LogDir))
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// openStore opens the library database named by cfg, creating the schema
// on first use.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.DB, error) {
	return storage.Open(ctx, config.ExpandPath(cfg.Library.Database), logger)
}
