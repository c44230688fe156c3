package logger

import (
	"io"
	"os"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Options selects where and how log lines are written.
type Options struct {
	Output io.Writer
	JSON   bool
	Async  bool
}

// DefaultOptions writes text logs asynchronously to stdout.
func DefaultOptions() Options {
	return Options{Output: os.Stdout, Async: true}
}

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger l.Logger
}

// NewStdLogger creates a logger adapter with default options.
func NewStdLogger() (ports.Logger, error) {
	return New(DefaultOptions())
}

// New creates a logger adapter with the given options.
func New(opts Options) (ports.Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      opts.Output,
		JsonFormat:  opts.JSON,
		AsyncWrite:  opts.Async,
		BufferSize:  1024 * 1024,      // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &StdLogger{logger: logger}, nil
}

// FromExisting wraps an existing l.Logger.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger}
}

func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the underlying logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}

// NopLogger discards everything.
type NopLogger struct{}

// NewNopLogger returns a logger that writes nothing.
func NewNopLogger() ports.Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }
