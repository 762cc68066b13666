// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mia-platform/logfacade/internal/config"
)

const logPathMode = 0o755

var (
	// nullLogger is a logger that discards all log messages.
	nullLogger = NewDiscard()
)

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// Trace emit a message and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

// Make sure that Facade is a Logger.
var _ Logger = &Facade{}

// Facade is the process logger. It fans every message out to a console
// transport, an optional default file transport and any file transport added
// with AddLog; each transport filters on its own level.
//
// Named views returned by WithName share the transports of their parent.
type Facade struct {
	log hclog.Logger
	reg *registry
}

// registry owns the transports shared by a Facade and its named views.
type registry struct {
	mu        sync.Mutex
	intercept hclog.InterceptLogger

	transports     []*Transport
	console        *Transport
	defaultLog     *Transport
	defaultEnabled bool
	closed         bool

	path                string
	defaultFilename     string
	defaultFilenamePath string
	fileLevel           Level
	jsonFormat          bool
	onWriteError        WriteErrorHandler
}

// New builds the process logger from cfg. It creates the log path when
// requested, attaches the console transport and, if enabled, the default file
// transport. Any error returned is fatal for logging.
func New(cfg *config.Config, opts ...Option) (*Facade, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if cfg.CreatePath {
		if err := os.MkdirAll(cfg.LogPath, logPathMode); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrLogPathCreation, cfg.LogPath, err)
		}
	}

	consoleLevel := DEBUG
	if cfg.IsProduction() {
		consoleLevel = INFO
	}

	consoleColor := hclog.ColorOff
	if _, ok := options.consoleOutput.(*os.File); ok {
		consoleColor = hclog.AutoColor
	}

	reg := &registry{
		intercept:           newDiscardingIntercept(),
		path:                cfg.LogPath,
		defaultFilename:     cfg.LogFilename,
		defaultFilenamePath: cfg.DefaultFilenamePath(),
		fileLevel:           LevelFromString(cfg.LogLevel),
		jsonFormat:          cfg.JSONFormat,
		console:             newTransport(consoleTransportName, "", options.consoleOutput, consoleLevel, cfg.JSONFormat, consoleColor),
	}

	reg.onWriteError = options.onWriteError
	if reg.onWriteError == nil {
		reg.onWriteError = func(path string, err error) {
			reg.console.log.Error("log transport write failed", "path", path, "error", err)
		}
	}

	reg.register(reg.console)

	facade := &Facade{log: reg.intercept, reg: reg}
	if cfg.EnableDefaultLog {
		if err := facade.EnableDefaultLog(); err != nil {
			_ = facade.Close()
			return nil, err
		}
	}

	for _, transport := range options.extraTransports {
		logOpts := make([]LogOption, 0, 2)
		if transport.Level != "" {
			logOpts = append(logOpts, WithLevel(LevelFromString(transport.Level)))
		}
		if transport.Path != "" {
			logOpts = append(logOpts, WithDirectory(transport.Path))
		}

		if _, err := facade.AddLog(transport.Filename, logOpts...); err != nil {
			_ = facade.Close()
			return nil, err
		}
	}

	return facade, nil
}

// NewDiscard returns a Facade without transports that drops every message.
// Attaching transports to it fails with ErrFacadeClosed.
func NewDiscard() *Facade {
	reg := &registry{
		intercept: newDiscardingIntercept(),
		closed:    true,
	}
	return &Facade{log: reg.intercept, reg: reg}
}

// newDiscardingIntercept returns the fan-out logger; its own output is
// switched off so that only registered transports write.
func newDiscardingIntercept() hclog.InterceptLogger {
	return hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

func (f *Facade) WithName(name string) Logger {
	return &Facade{
		log: f.log.Named(name),
		reg: f.reg,
	}
}

// SetLevel updates the console transport level. It does nothing on a facade
// without a console, like the one returned by NewDiscard.
func (f *Facade) SetLevel(level Level) {
	if f.reg.console == nil {
		return
	}
	f.reg.console.SetLevel(level)
}

// Log emits a message and key/value pairs at the given level; unknown levels
// are treated as INFO.
func (f *Facade) Log(level Level, msg string, args ...interface{}) {
	switch level {
	case TRACE:
		f.log.Trace(msg, args...)
	case DEBUG:
		f.log.Debug(msg, args...)
	case WARN:
		f.log.Warn(msg, args...)
	case ERROR:
		f.log.Error(msg, args...)
	default:
		f.log.Info(msg, args...)
	}
}

// Logf emits a printf-style formatted message at the given level.
func (f *Facade) Logf(level Level, format string, args ...interface{}) {
	f.Log(level, fmt.Sprintf(format, args...))
}

func (f *Facade) Trace(msg string, args ...interface{}) {
	f.log.Trace(msg, args...)
}

func (f *Facade) Debug(msg string, args ...interface{}) {
	f.log.Debug(msg, args...)
}

func (f *Facade) Info(msg string, args ...interface{}) {
	f.log.Info(msg, args...)
}

func (f *Facade) Warn(msg string, args ...interface{}) {
	f.log.Warn(msg, args...)
}

func (f *Facade) Error(msg string, args ...interface{}) {
	f.log.Error(msg, args...)
}

func (f *Facade) Tracef(format string, args ...interface{}) {
	f.Logf(TRACE, format, args...)
}

func (f *Facade) Debugf(format string, args ...interface{}) {
	f.Logf(DEBUG, format, args...)
}

func (f *Facade) Infof(format string, args ...interface{}) {
	f.Logf(INFO, format, args...)
}

func (f *Facade) Warnf(format string, args ...interface{}) {
	f.Logf(WARN, format, args...)
}

func (f *Facade) Errorf(format string, args ...interface{}) {
	f.Logf(ERROR, format, args...)
}

// AddLog attaches a new file transport writing to filename inside the default
// log path. Adding the same file twice attaches two transports and every
// message is then written twice.
func (f *Facade) AddLog(filename string, opts ...LogOption) (*Transport, error) {
	reg := f.reg
	settings := &logSettings{
		level:     reg.fileLevel,
		directory: reg.path,
	}
	for _, opt := range opts {
		opt(settings)
	}

	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(settings.directory, filename)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrTransportOpen, filename, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.closed {
		return nil, ErrFacadeClosed
	}

	file, err := openFileWriter(path, reg.reportWriteError)
	if err != nil {
		return nil, err
	}

	transport := newFileTransport(file, settings.level, reg.jsonFormat)
	reg.register(transport)
	return transport, nil
}

// RemoveLog detaches and closes a transport added with AddLog. Removing a
// transport that is not attached does nothing. The default file transport is
// only detached, as with DisableDefaultLog.
func (f *Facade) RemoveLog(transport *Transport) error {
	reg := f.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if transport == nil || transport == reg.console || !slices.Contains(reg.transports, transport) {
		return nil
	}

	reg.deregister(transport)
	if transport == reg.defaultLog {
		reg.defaultEnabled = false
		return nil
	}
	return transport.close()
}

// EnableDefaultLog attaches the default file transport. The file is opened
// in append mode on first use and kept open until Close.
func (f *Facade) EnableDefaultLog() error {
	reg := f.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closed {
		return ErrFacadeClosed
	}
	if reg.defaultEnabled {
		return nil
	}

	if reg.defaultLog == nil {
		file, err := openFileWriter(reg.defaultFilenamePath, reg.reportWriteError)
		if err != nil {
			return err
		}
		reg.defaultLog = newFileTransport(file, reg.fileLevel, reg.jsonFormat)
	}

	reg.register(reg.defaultLog)
	reg.defaultEnabled = true
	return nil
}

// DisableDefaultLog detaches the default file transport; calling it while
// the transport is detached does nothing.
func (f *Facade) DisableDefaultLog() {
	reg := f.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.defaultEnabled {
		return
	}

	reg.deregister(reg.defaultLog)
	reg.defaultEnabled = false
}

// DefaultLogEnabled reports whether the default file transport is attached.
func (f *Facade) DefaultLogEnabled() bool {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	return f.reg.defaultEnabled
}

// Path returns the fully qualified default log path.
func (f *Facade) Path() string {
	return f.reg.path
}

// DefaultFilename returns the filename of the default log file.
func (f *Facade) DefaultFilename() string {
	return f.reg.defaultFilename
}

// DefaultFilenamePath returns the fully qualified default log file path.
func (f *Facade) DefaultFilenamePath() string {
	return f.reg.defaultFilenamePath
}

// Transports returns the attached transports in attachment order.
func (f *Facade) Transports() []*Transport {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	return slices.Clone(f.reg.transports)
}

// Close detaches every transport and closes every file. The facade drops all
// messages afterwards.
func (f *Facade) Close() error {
	reg := f.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closed {
		return nil
	}
	reg.closed = true

	var errs []error
	for _, transport := range slices.Clone(reg.transports) {
		reg.deregister(transport)
		if transport != reg.defaultLog {
			errs = append(errs, transport.close())
		}
	}
	if reg.defaultLog != nil {
		errs = append(errs, reg.defaultLog.close())
		reg.defaultEnabled = false
	}

	return errors.Join(errs...)
}

func (r *registry) register(transport *Transport) {
	r.transports = append(r.transports, transport)
	r.intercept.RegisterSink(transport)
}

func (r *registry) deregister(transport *Transport) {
	r.intercept.DeregisterSink(transport)
	r.transports = slices.DeleteFunc(r.transports, func(t *Transport) bool {
		return t == transport
	})
}

func (r *registry) reportWriteError(path string, err error) {
	r.onWriteError(path, err)
}
