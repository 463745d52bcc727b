package glgpu

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/muesli/termenv"
)

// Level is a log severity threshold.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "off"
}

// ParseLevel accepts the names printed by Level.String, case insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "verbose":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("glgpu: unknown log level %q", s)
}

// Logger keeps one *log.Logger per severity so each line carries its own prefix.
type Logger struct {
	level atomic.Int32
	trace *log.Logger
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
}

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// NewLogger writes every severity at or above level to w. Prefixes are colored when w is a terminal.
func NewLogger(w io.Writer, level Level) *Logger {
	out := termenv.NewOutput(w)
	prefix := func(name, color string) string {
		if out.Profile == termenv.Ascii {
			return name + ": "
		}
		return out.String(name).Foreground(out.Color(color)).Bold().String() + ": "
	}
	l := &Logger{
		trace: log.New(w, prefix("TRACE", "8"), logFlags),
		debug: log.New(w, prefix("DEBUG", "6"), logFlags),
		info:  log.New(w, prefix("INFO", "4"), logFlags),
		warn:  log.New(w, prefix("WARNING", "3"), logFlags),
		err:   log.New(w, prefix("ERROR", "1"), logFlags),
	}
	l.level.Store(int32(level))
	return l
}

// OpenLogFile returns a logger appending to path.
func OpenLogFile(path string, level Level) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level() && level < LevelOff
}

func (l *Logger) output(level Level, lg *log.Logger, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	lg.Output(3, fmt.Sprintf(format, args...))
}

func (l *Logger) Tracef(format string, args ...any) { l.output(LevelTrace, l.trace, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.output(LevelDebug, l.debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.output(LevelInfo, l.info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.output(LevelWarn, l.warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.output(LevelError, l.err, format, args...) }

var std atomic.Pointer[Logger]

func init() {
	std.Store(NewLogger(os.Stderr, LevelInfo))
}

// Log returns the package logger used by every backend.
func Log() *Logger {
	return std.Load()
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *Logger) {
	if l != nil {
		std.Store(l)
	}
}
