package mzap

import (
	"os"
	"strings"

	"github.com/quantora/ledger/pkg/mlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapWithTraceLogger adapts a zap sugared logger to mlog.Logger.
type ZapWithTraceLogger struct {
	Logger *zap.SugaredLogger
}

func (l *ZapWithTraceLogger) Info(args ...any)                  { l.Logger.Info(args...) }
func (l *ZapWithTraceLogger) Infof(format string, args ...any)  { l.Logger.Infof(format, args...) }
func (l *ZapWithTraceLogger) Error(args ...any)                 { l.Logger.Error(args...) }
func (l *ZapWithTraceLogger) Errorf(format string, args ...any) { l.Logger.Errorf(format, args...) }
func (l *ZapWithTraceLogger) Warn(args ...any)                  { l.Logger.Warn(args...) }
func (l *ZapWithTraceLogger) Warnf(format string, args ...any)  { l.Logger.Warnf(format, args...) }
func (l *ZapWithTraceLogger) Debug(args ...any)                 { l.Logger.Debug(args...) }
func (l *ZapWithTraceLogger) Debugf(format string, args ...any) { l.Logger.Debugf(format, args...) }
func (l *ZapWithTraceLogger) Fatal(args ...any)                 { l.Logger.Fatal(args...) }
func (l *ZapWithTraceLogger) Fatalf(format string, args ...any) { l.Logger.Fatalf(format, args...) }

// WithFields returns a child logger with the given key/value pairs
// attached to every line.
func (l *ZapWithTraceLogger) WithFields(fields ...any) mlog.Logger {
	return &ZapWithTraceLogger{Logger: l.Logger.With(fields...)}
}

// Sync flushes buffered log entries.
func (l *ZapWithTraceLogger) Sync() error {
	return l.Logger.Sync()
}

// InitializeLogger builds the production logger. Level comes from
// LOG_LEVEL; ENV_NAME=local switches to the human-readable development
// encoder.
func InitializeLogger() mlog.Logger {
	var cfg zap.Config

	if strings.EqualFold(os.Getenv("ENV_NAME"), "local") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &ZapWithTraceLogger{Logger: logger.Sugar()}
}
