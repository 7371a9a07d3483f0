package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Logger struct {
	level int
	out   *log.Logger
}

const (
	lvDebug = iota
	lvInfo
	lvWarn
	lvError
)

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return lvDebug
	case "warn", "warning":
		return lvWarn
	case "error":
		return lvError
	default:
		return lvInfo
	}
}

// New returns a Logger writing to w, or stderr when w is nil.
// Unknown levels log at info.
func New(level string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: parseLevel(level), out: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) Debugf(f string, a ...any) {
	if l.level <= lvDebug {
		l.out.Printf("[debug] "+f, a...)
	}
}
func (l *Logger) Infof(f string, a ...any) {
	if l.level <= lvInfo {
		l.out.Printf("[info ] "+f, a...)
	}
}
func (l *Logger) Warnf(f string, a ...any) {
	if l.level <= lvWarn {
		l.out.Printf("[warn ] "+f, a...)
	}
}
func (l *Logger) Errorf(f string, a ...any) {
	if l.level <= lvError {
		l.out.Printf("[error] "+f, a...)
	}
}
func (l *Logger) Fatalf(f string, a ...any) { l.out.Fatalf("[fatal] "+f, a...) }

// Std exposes the underlying *log.Logger, for libraries that want one.
func (l *Logger) Std() *log.Logger { return l.out }
