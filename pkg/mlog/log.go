package mlog

// Logger is the logging abstraction used across the service. Concrete
// implementations live in pkg/mzap.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)

	WithFields(fields ...any) Logger
	Sync() error
}

// NoneLogger discards everything. It backs contexts that carry no
// logger, keeping call sites nil-safe.
type NoneLogger struct{}

func (l *NoneLogger) Info(args ...any)                  {}
func (l *NoneLogger) Infof(format string, args ...any)  {}
func (l *NoneLogger) Error(args ...any)                 {}
func (l *NoneLogger) Errorf(format string, args ...any) {}
func (l *NoneLogger) Warn(args ...any)                  {}
func (l *NoneLogger) Warnf(format string, args ...any)  {}
func (l *NoneLogger) Debug(args ...any)                 {}
func (l *NoneLogger) Debugf(format string, args ...any) {}
func (l *NoneLogger) Fatal(args ...any)                 {}
func (l *NoneLogger) Fatalf(format string, args ...any) {}

func (l *NoneLogger) WithFields(fields ...any) Logger { return l }
func (l *NoneLogger) Sync() error                     { return nil }
