// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/logfacade/internal/logger"
)

const (
	emitCmdUsage = "emit LEVEL MESSAGE..."
	emitCmdShort = "write a message through the configured logger"
	emitCmdLong  = `Write a message through the configured logger.
	The message is delivered to every attached transport whose level
	threshold is met: the console, the default log file when enabled and
	any extra log file requested with --extra-log.

	The available levels are: %s`

	emitCmdExample = `# Write an info message on the console and the default log file
	logfacade emit info service started

	# Also write warnings and errors to a dedicated file inside LOG_PATH
	logfacade emit error disk almost full --extra-log errors.log --extra-log-level warn`

	pathsCmdUsage = "paths"
	pathsCmdShort = "print the resolved log paths"
	pathsCmdLong  = `Print the log directory, the default log filename and its fully qualified
	path as resolved from the environment.`

	serveCmdUsage = "serve"
	serveCmdShort = "start the admin server"
	serveCmdLong  = `Start the admin HTTP server.
	The server exposes the health routes and the routes to inspect the logger
	and change its transports at runtime. Every other request is logged.
	The server stops on SIGINT or SIGTERM.`
)

// EmitCmd returns the Cobra command that writes a single message.
func EmitCmd() *cobra.Command {
	flags := &emitFlags{}
	cmd := &cobra.Command{
		Use:     emitCmdUsage,
		Short:   heredoc.Doc(emitCmdShort),
		Long:    fmt.Sprintf(heredoc.Doc(emitCmdLong), strings.Join(availableLevels, ", ")),
		Example: heredoc.Doc(emitCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.toOptions(args)
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// PathsCmd returns the Cobra command that prints the resolved log paths.
func PathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   pathsCmdUsage,
		Short: heredoc.Doc(pathsCmdShort),
		Long:  heredoc.Doc(pathsCmdLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			log := logger.FromContext(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path: %s\n", log.Path())
			fmt.Fprintf(out, "defaultFilename: %s\n", log.DefaultFilename())
			fmt.Fprintf(out, "defaultFilenamePath: %s\n", log.DefaultFilenamePath())
			fmt.Fprintf(out, "defaultLogEnabled: %t\n", log.DefaultLogEnabled())
		},
	}
}

// ServeCmd returns the Cobra command that runs the admin server.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   serveCmdUsage,
		Short: heredoc.Doc(serveCmdShort),
		Long:  heredoc.Doc(serveCmdLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := serve(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}
			return nil
		},
	}
}

// validArgsFunc provides shell completion for the level argument of "emit".
func validArgsFunc(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var comps []string
	if len(args) == 0 {
		for _, level := range availableLevels {
			if strings.HasPrefix(level, strings.ToLower(toComplete)) {
				comps = append(comps, level)
			}
		}
	}

	return comps, cobra.ShellCompDirectiveNoFileComp
}
