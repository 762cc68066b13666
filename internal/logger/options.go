// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"io"
	"os"

	"github.com/mia-platform/logfacade/internal/config"
)

// Option configures a Facade built by New.
type Option func(*options)

type options struct {
	consoleOutput   io.Writer
	onWriteError    WriteErrorHandler
	extraTransports []config.TransportConfig
}

func defaultOptions() *options {
	return &options{
		consoleOutput: os.Stderr,
	}
}

// WithConsoleOutput sets the writer used by the console transport.
func WithConsoleOutput(writer io.Writer) Option {
	return func(o *options) {
		o.consoleOutput = writer
	}
}

// WithWriteErrorHandler replaces the default handler, that reports file write
// failures on the console transport.
func WithWriteErrorHandler(handler WriteErrorHandler) Option {
	return func(o *options) {
		o.onWriteError = handler
	}
}

// WithExtraTransports attaches the declared file transports at construction.
func WithExtraTransports(transports []config.TransportConfig) Option {
	return func(o *options) {
		o.extraTransports = append(o.extraTransports, transports...)
	}
}

// LogOption configures a file transport attached with AddLog.
type LogOption func(*logSettings)

type logSettings struct {
	level     Level
	directory string
}

// WithLevel sets the minimum level of the new transport, otherwise the
// configured LOG_LEVEL applies.
func WithLevel(level Level) LogOption {
	return func(s *logSettings) {
		s.level = level
	}
}

// WithDirectory places the new file in directory instead of the default log path.
func WithDirectory(directory string) LogOption {
	return func(s *logSettings) {
		s.directory = directory
	}
}
