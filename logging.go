package scrub

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewWriterLogger logs Debug/Info to out and Warn/Error to errOut. The
// terminal front-end points both at a file since the screen owns stdout.
func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.prefixf("ERROR", format, args...))
}

// LoggingModule installs a logger as a resource. Out, when set, receives
// every level.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Out    io.Writer
}

func (m LoggingModule) Install(app *App) {
	if m.Out != nil {
		app.addResources(NewWriterLogger(m.Prefix, m.Debug, m.Out, m.Out))
		return
	}
	app.addResources(NewDefaultLogger(m.Prefix, m.Debug))
}

type nopLogger struct{}

func NewNopLogger() Logger                             { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// WithScope tags every message of l with scope, e.g. the scene it came from.
func WithScope(l Logger, scope string) Logger {
	if scope == "" {
		return l
	}
	return &scopedLogger{Logger: l, scope: scope}
}

type scopedLogger struct {
	Logger
	scope string
}

func (l *scopedLogger) Debugf(format string, args ...any) {
	l.Logger.Debugf("%s: "+format, append([]any{l.scope}, args...)...)
}

func (l *scopedLogger) Infof(format string, args ...any) {
	l.Logger.Infof("%s: "+format, append([]any{l.scope}, args...)...)
}

func (l *scopedLogger) Warnf(format string, args ...any) {
	l.Logger.Warnf("%s: "+format, append([]any{l.scope}, args...)...)
}

func (l *scopedLogger) Errorf(format string, args ...any) {
	l.Logger.Errorf("%s: "+format, append([]any{l.scope}, args...)...)
}

// Logger returns the installed logger, or a no-op one. Never nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
