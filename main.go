// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	internalcmd "github.com/mia-platform/logfacade/internal/cmd"
	"github.com/mia-platform/logfacade/internal/config"
	"github.com/mia-platform/logfacade/internal/info"
	"github.com/mia-platform/logfacade/internal/logger"
)

var (
	// Version is injected at build time via the Makefile.
	Version = info.Version
	// BuildDate is injected at build time via the Makefile.
	BuildDate = info.BuildDate

	appName      = info.AppName
	versionShort = "Display the " + appName + " version"

	errDotEnvNotValid  = errors.New(".env file not valid")
	errInvalidLogLevel = errors.New("invalid log level")
)

const (
	appShort = "logfacade configures the process logger from the environment"
	appLong  = `logfacade builds a leveled logger with a console transport and an
	optional default file transport, both configured from environment variables.

	Environment variables can also be set in a .env file of the working
	directory; variables already set in the environment take precedence.

	Supported environment variables:
	- LOG_PATH: directory of the log files (default: ./logs)
	- LOG_FILENAME: name of the default log file (default: info.log)
	- LOG_CREATE_PATH: create LOG_PATH when missing (default: true)
	- ENABLE_DEFAULT_LOG: attach the default log file at startup (default: true)
	- NODE_ENV: "production" lowers the console verbosity to info
	- LOG_LEVEL: level of file transports without an explicit one (default: info)
	- LOG_JSON_FORMAT: write JSON lines (default: false)
	- LOG_TRANSPORTS_FILE: YAML file declaring extra file transports`

	logLevelFlagName      = "log-level"
	logLevelShortFlagName = "v"

	versionCmdName = "version"
)

var (
	allLoggerLevels = []string{
		logger.TRACE.String(),
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARN.String(),
		logger.ERROR.String(),
	}
	logLevelDefaultValue = logger.DEBUG.String()
	logLevelFlagUsage    = "set the console logging level (possible values: " + strings.Join(allLoggerLevels, ", ") + ")"
)

// rootFlags holds the persistent flags shared across the command tree.
type rootFlags struct {
	logLevel string
}

// addFlags registers the persistent CLI flags on cmd.
func (f *rootFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.logLevel, logLevelFlagName, logLevelShortFlagName, logLevelDefaultValue, heredoc.Doc(logLevelFlagUsage))
}

func main() {
	os.Exit(run())
}

// run wires configuration, logger and command tree, and returns the exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCmd()
	log, err := newLogger(cmd.OutOrStderr())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}
	defer log.Close()

	if err := cmd.ExecuteContext(logger.WithContext(ctx, log)); err != nil {
		return 1
	}
	return 0
}

// newLogger builds the process logger from the environment; any error is fatal.
// Variables found in a .env file of the working directory are loaded first and
// never override the ones already set.
func newLogger(console io.Writer) (*logger.Facade, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", errDotEnvNotValid, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	opts := []logger.Option{logger.WithConsoleOutput(console)}
	if cfg.TransportsFile != "" {
		transports, err := config.LoadTransports(cfg.TransportsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithExtraTransports(transports))
	}

	return logger.New(cfg, opts...)
}

// rootCmd constructs the root Cobra command with shared configuration.
func rootCmd() *cobra.Command {
	flag := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// the console level depends on NODE_ENV unless explicitly requested
			if !cmd.Flags().Changed(logLevelFlagName) {
				return nil
			}

			if !config.IsValidLevel(flag.logLevel) {
				err := fmt.Errorf("%w: %s", errInvalidLogLevel, flag.logLevel)
				cmd.PrintErrln(err)
				_ = cmd.Usage()
				return err
			}

			logger.FromContext(cmd.Context()).SetLevel(logger.LevelFromString(flag.logLevel))
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	flag.addFlags(cmd)
	cmd.AddCommand(
		internalcmd.EmitCmd(),
		internalcmd.PathsCmd(),
		internalcmd.ServeCmd(),
		versionCmd(),
	)

	return cmd
}

// versionCmd constructs the Cobra command that prints version information.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   versionCmdName,
		Short: heredoc.Doc(versionShort),

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(Version, BuildDate, runtime.Version()))
		},
	}
}

// versionString formats the version metadata for display.
func versionString(version, buildDate, runtimeVersion string) string {
	outputString := version
	if buildDate != "" {
		outputString += " (" + buildDate + ")"
	}

	return outputString + ", Go Version: " + runtimeVersion
}
