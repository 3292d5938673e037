// Package common provides shared constants, types, and utilities
// used across the NordVPN tray application.
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel maps a configuration string onto a LogLevel.
// Unknown values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// AppLogger is the application logger.
// Console output always goes to stderr; a rotating file and the syslog
// error channel are added by InitLogger.
type AppLogger struct {
	mu      sync.Mutex
	level   zap.AtomicLevel
	sugar   *zap.SugaredLogger
	closers []io.Closer
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level        LogLevel
	EnableFile   bool
	MaxFileSize  int // in megabytes, default 5
	MaxBackups   int // number of rotated files to keep, default 5
	EnableSyslog bool
}

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

// Sinks used by InitLogger. Replaced in tests.
var (
	consoleOutput io.Writer = os.Stderr
	syslogSink              = openSyslog
)

const (
	defaultMaxFileSize = 5 // MB
	defaultMaxBackups  = 5
)

// GetLogger returns the singleton logger instance.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = newAppLogger(zap.NewAtomicLevelAt(zapcore.InfoLevel), os.Stderr)
	})
	return defaultLogger
}

func newAppLogger(level zap.AtomicLevel, w io.Writer) *AppLogger {
	l := &AppLogger{level: level}
	l.sugar = buildLogger(consoleCore(w, level))
	return l
}

func buildLogger(core zapcore.Core) *zap.SugaredLogger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
}

// InitLogger initializes the default logger with custom configuration.
// Should be called early in application startup. A file or syslog sink that
// cannot be opened is skipped and reported through the returned error; the
// console sink is always installed.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)

	cores := []zapcore.Core{consoleCore(consoleOutput, logger.level)}
	var closers []io.Closer
	var initErr error

	if config.EnableFile {
		rotator, err := fileWriter(config)
		if err != nil {
			initErr = err
		} else {
			cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotator), logger.level))
			closers = append(closers, rotator)
		}
	}

	if config.EnableSyslog {
		// The console core already writes every error to stderr, so a
		// missing or failing syslog drops the line instead of repeating it.
		if sink := syslogSink(); sink != nil {
			if c, ok := sink.(io.Closer); ok {
				closers = append(closers, c)
			}
			cores = append(cores, errorChannelCore(sink, io.Discard))
		}
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	for _, c := range logger.closers {
		c.Close()
	}
	logger.closers = closers
	logger.sugar = buildLogger(zapcore.NewTee(cores...))
	return initErr
}

// fileWriter returns a size-rotated writer under the log directory.
func fileWriter(config LogConfig) (*lumberjack.Logger, error) {
	logDir, err := GetLogDir()
	if err != nil {
		return nil, err
	}

	logPath := filepath.Join(logDir, LogFileName)
	if isSymlink(logPath) {
		return nil, fmt.Errorf("security error: log file is a symlink")
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = defaultMaxBackups
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}, nil
}

func consoleCore(w io.Writer, level zap.AtomicLevel) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
}

func fileEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// errorChannelCore sends single-line error messages to w, falling back to
// fallback when w is nil or a write fails.
func errorChannelCore(w, fallback io.Writer) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	}
	sink := &fallbackWriter{primary: w, fallback: fallback}
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(sink), zapcore.ErrorLevel)
}

// fallbackWriter never reports an error to zap: whatever the primary sink
// refuses is written to the fallback instead.
type fallbackWriter struct {
	primary  io.Writer
	fallback io.Writer
}

func (w *fallbackWriter) Write(p []byte) (int, error) {
	if w.primary != nil {
		if n, err := w.primary.Write(p); err == nil {
			return n, nil
		}
	}
	w.fallback.Write(p)
	return len(p), nil
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Level returns the current minimum log level.
func (l *AppLogger) Level() LogLevel {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// SetOutput replaces every sink with a console sink writing to w.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sugar = buildLogger(consoleCore(w, l.level))
}

// SetCore replaces every sink with core. Used by tests to observe entries.
func (l *AppLogger) SetCore(core zapcore.Core) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sugar = buildLogger(core)
}

// log writes a formatted log message.
func (l *AppLogger) log(level LogLevel, msg string, args ...interface{}) {
	l.mu.Lock()
	sugar := l.sugar
	l.mu.Unlock()

	switch level {
	case LevelDebug:
		sugar.Debugf(msg, args...)
	case LevelInfo:
		sugar.Infof(msg, args...)
	case LevelWarn:
		sugar.Warnf(msg, args...)
	default:
		sugar.Errorf(msg, args...)
	}
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message. With syslog enabled, this is the error channel.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// Shorthand functions for default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().log(LevelDebug, msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().log(LevelInfo, msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().log(LevelWarn, msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().log(LevelError, msg, args...)
}

// Close flushes buffered entries and closes the log file.
// Should be called on application shutdown.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.sugar.Sync()
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
