// Package logging sets up the process-wide zap logger used by crudgen.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	// Dir holds the rotated log file. Empty means ~/.crudgen/logs.
	Dir string
	// Console mirrors warnings and errors to this writer when set.
	Console io.Writer
	// Level overrides LOG_LEVEL.
	Level string
}

// Service owns a zap logger and its file sink.
type Service struct {
	logger *zap.Logger
	runID  string
}

var globalLogger = zap.NewNop()

// LogDir returns the default log directory, creating it if it doesn't exist.
func LogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".crudgen", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return dir, nil
}

// New creates a logging service writing JSON lines to a rotated file.
// Every entry carries the run id of this invocation.
func New(opts Options) (*Service, func(), error) {
	dir := opts.Dir
	if dir == "" {
		d, err := LogDir()
		if err != nil {
			return nil, nil, err
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "crudgen.log"),
		MaxSize:    2, // megabytes
		MaxBackups: 5,
		MaxAge:     15, // days
		Compress:   true,
	})

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	level := ParseLevel(opts.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), fileWriter, level),
	}
	if opts.Console != nil {
		ccfg := zap.NewDevelopmentEncoderConfig()
		ccfg.TimeKey = ""
		ccfg.CallerKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(ccfg),
			zapcore.AddSync(opts.Console),
			zapcore.WarnLevel,
		))
	}

	runID := uuid.NewString()
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("run", runID))

	return &Service{logger: logger, runID: runID}, func() {
		_ = logger.Sync()
	}, nil
}

// ParseLevel returns the level named by s, or by LOG_LEVEL when s is empty.
// Unknown names mean info.
func ParseLevel(s string) zapcore.Level {
	if s == "" {
		s = os.Getenv("LOG_LEVEL")
	}
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// Logger returns the zap logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// RunID returns the id attached to every entry of this run.
func (s *Service) RunID() string {
	return s.runID
}

// InitGlobalLogger installs a new service as the package logger.
func InitGlobalLogger(opts Options) (func(), error) {
	service, closeFn, err := New(opts)
	if err != nil {
		return nil, err
	}
	globalLogger = service.Logger()
	return func() {
		closeFn()
		globalLogger = zap.NewNop()
	}, nil
}

// SetLogger replaces the package logger. A nil logger discards output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	globalLogger = l
}

// L returns the package logger.
func L() *zap.Logger {
	return globalLogger
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	globalLogger.Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	globalLogger.Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	globalLogger.Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	globalLogger.Error(msg, fields...)
}
