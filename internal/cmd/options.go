// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"

	"github.com/mia-platform/logfacade/internal/config"
	"github.com/mia-platform/logfacade/internal/logger"
)

// emitOptions holds a single message to write and the transports to use.
type emitOptions struct {
	level         string
	message       string
	extraLogs     []string
	extraLogLevel string
	noDefaultLog  bool
}

// validate checks the configured values and reports invalid setups.
func (o *emitOptions) validate() error {
	if o.level == "" {
		return errNoArguments
	}

	if !config.IsValidLevel(o.level) {
		return fmt.Errorf("%w: %s", errInvalidLevel, o.level)
	}

	if o.message == "" {
		return errNoMessage
	}

	if o.extraLogLevel != "" && !config.IsValidLevel(o.extraLogLevel) {
		return fmt.Errorf("%w: %s", errInvalidLevel, o.extraLogLevel)
	}

	return nil
}

// execute writes the message through the logger found in ctx. Extra log files
// are attached only for this message.
func (o *emitOptions) execute(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if o.noDefaultLog {
		log.DisableDefaultLog()
	}

	logOpts := make([]logger.LogOption, 0, 1)
	if o.extraLogLevel != "" {
		logOpts = append(logOpts, logger.WithLevel(logger.LevelFromString(o.extraLogLevel)))
	}

	for _, filename := range o.extraLogs {
		transport, err := log.AddLog(filename, logOpts...)
		if err != nil {
			return err
		}
		defer func() { _ = log.RemoveLog(transport) }()
	}

	log.Log(logger.LevelFromString(o.level), o.message)
	return nil
}
