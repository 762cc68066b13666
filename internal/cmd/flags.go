// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	extraLogFlagName  = "extra-log"
	extraLogFlagUsage = "Name of an extra log file inside LOG_PATH, or an absolute path. Can be specified multiple times."

	extraLogLevelFlagName  = "extra-log-level"
	extraLogLevelFlagUsage = "Minimum level written to the extra log files, defaults to LOG_LEVEL"

	noDefaultLogFlagName  = "no-default-log"
	noDefaultLogFlagUsage = "If set, the message is not written to the default log file"
	defaultNoDefaultLog   = false
)

// emitFlags collects the CLI options of the emit command.
type emitFlags struct {
	extraLogs     []string
	extraLogLevel string
	noDefaultLog  bool
}

// addFlags registers the CLI flags on cmd.
func (f *emitFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.extraLogs, extraLogFlagName, nil, extraLogFlagUsage)
	cmd.Flags().StringVar(&f.extraLogLevel, extraLogLevelFlagName, "", extraLogLevelFlagUsage)
	cmd.Flags().BoolVar(&f.noDefaultLog, noDefaultLogFlagName, defaultNoDefaultLog, noDefaultLogFlagUsage)
}

// toOptions builds an options instance from the parsed flags and CLI arguments.
func (f *emitFlags) toOptions(args []string) *emitOptions {
	opts := &emitOptions{
		extraLogs:     f.extraLogs,
		extraLogLevel: f.extraLogLevel,
		noDefaultLog:  f.noDefaultLog,
	}

	if len(args) > 0 {
		opts.level = strings.ToLower(args[0])
		opts.message = strings.Join(args[1:], " ")
	}

	return opts
}
