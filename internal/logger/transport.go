// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	consoleTransportName = "console"

	// isoTimeFormat renders ISO-8601 timestamps with millisecond precision.
	isoTimeFormat = "2006-01-02T15:04:05.000Z07:00"

	logFileMode = 0o644
)

// WriteErrorHandler receives the write failures of file transports. It runs while
// the failing transport is locked, so it must not log through the facade.
type WriteErrorHandler func(path string, err error)

// Transport is a sink attached to a Facade with its own minimum level.
type Transport struct {
	name string
	path string
	log  hclog.Logger
	file *fileWriter
}

// Make sure that Transport can be registered on an intercept logger.
var _ hclog.SinkAdapter = &Transport{}

func newTransport(name, path string, output io.Writer, level Level, jsonFormat bool, color hclog.ColorOption) *Transport {
	return &Transport{
		name: name,
		path: path,
		log: hclog.New(&hclog.LoggerOptions{
			Output:     output,
			Level:      level.convertedLevel(),
			JSONFormat: jsonFormat,
			TimeFormat: isoTimeFormat,
			TimeFn:     time.Now,
			Color:      color,
		}),
	}
}

func newFileTransport(file *fileWriter, level Level, jsonFormat bool) *Transport {
	transport := newTransport(file.path, file.path, file, level, jsonFormat, hclog.ColorOff)
	transport.file = file
	return transport
}

// Accept writes the message if level meets the transport threshold.
func (t *Transport) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	if name != "" {
		msg = name + ": " + msg
	}
	t.log.Log(level, msg, args...)
}

// Name returns "console" for the console transport and the file path otherwise.
func (t *Transport) Name() string {
	return t.name
}

// Path returns the fully qualified file path, empty for the console transport.
func (t *Transport) Path() string {
	return t.path
}

// Level returns the minimum level written by the transport.
func (t *Transport) Level() Level {
	return levelFromHclog(t.log.GetLevel())
}

// SetLevel updates the minimum level written by the transport.
func (t *Transport) SetLevel(level Level) {
	t.log.SetLevel(level.convertedLevel())
}

func (t *Transport) close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

// fileWriter appends to a log file and reports every failed write.
type fileWriter struct {
	file    *os.File
	path    string
	onError WriteErrorHandler
}

func openFileWriter(path string, onError WriteErrorHandler) (*fileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrTransportOpen, path, err)
	}

	return &fileWriter{
		file:    file,
		path:    path,
		onError: onError,
	}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	if err != nil && w.onError != nil {
		w.onError(w.path, err)
	}
	return n, err
}

func (w *fileWriter) Close() error {
	return w.file.Close()
}
