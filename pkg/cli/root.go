// Package cli implements the rscopes command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/config"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/loader"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/logging"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// app carries state shared by every command of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	logFile  string

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// NewRootCmd builds the rscopes command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rscopes",
		Short: "Track which width scope a terminal falls into",
		Long: `rscopes partitions widths into labelled scopes (sm, md, lg, ...) and
follows the terminal as it is resized, reporting when it moves up or down a
scope or flips between portrait and landscape.

It also rewrites asset paths for a scope: hero.png becomes hero_md.png.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/rscopes/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "append logs to this file instead of stderr")

	root.AddCommand(
		newWatchCmd(a),
		newResolveCmd(a),
		newScopesCmd(a),
		newInfixCmd(a),
		newUnfixCmd(a),
		newInitCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	viper.Reset()
	config.SetDefaults()

	if a.cfgFile != "" {
		viper.SetConfigFile(a.cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(loader.DefaultDir)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g. RSCOPES_SCOPES_INERTIA_MS for scopes.inertia_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if a.logLevel != "" {
		viper.Set("logging.level", a.logLevel)
	}
	if a.logFile != "" {
		viper.Set("logging.file", a.logFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Logging.File != "" {
		logger, closer, err := logging.Open(cfg.Logging.File, cfg.Logging.Level)
		if err != nil {
			return err
		}
		a.logger, a.closer = logger, closer
	} else {
		a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, logging.FormatText)
	}
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

// quietLogger is the logger for full-screen modes, where stderr output would
// corrupt the display: the file logger if one is configured, otherwise nothing.
func (a *app) quietLogger() *slog.Logger {
	if a.closer != nil {
		return a.logger
	}
	return logging.Nop()
}

// breakpoints resolves the partition definition, in order of precedence: the
// --breakpoints flag, scopes.breakpoints_file, the project's
// .rscopes/breakpoints.yaml, scopes.breakpoints, the built-in set.
// The returned path is the file the entries came from, if any.
func (a *app) breakpoints(flagPath string) ([]model.Entry, string, error) {
	path := flagPath
	if path == "" {
		path = a.cfg.Scopes.BreakpointsFile
	}
	if path == "" {
		if _, err := os.Stat(loader.DefaultPath(".")); err == nil {
			path = loader.DefaultPath(".")
		}
	}

	if path != "" {
		entries, err := loader.LoadBreakpointsFromFile(path)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		a.logger.Debug("loaded breakpoints", "path", abs, "entries", len(entries))
		return entries, abs, nil
	}
	return a.cfg.TrackerDefaults().Breakpoints, "", nil
}
