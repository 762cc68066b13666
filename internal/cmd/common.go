// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logfacade/internal/logger"
	"github.com/mia-platform/logfacade/internal/server"
)

const serveLoggerName = "logfacade:serve"

var (
	errNoArguments  = errors.New("no level provided")
	errNoMessage    = errors.New("no message provided")
	errInvalidLevel = errors.New("invalid level provided")

	// availableLevels holds the level names accepted on the command line.
	availableLevels = []string{"trace", "debug", "info", "warn", "error"}

	// serverGetter returns the admin server to run. It can be overridden for testing purposes.
	serverGetter = server.NewServer
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidLevel), errors.Is(err, errNoMessage):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// serve runs the admin server until ctx is cancelled or the server fails.
func serve(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName(serveLoggerName)

	srv, err := serverGetter(ctx)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("shutdown requested")
		if err := srv.Stop(); err != nil {
			return err
		}
		return <-errChan
	}
}
