package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/rollbar/rollbar-go"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
)

// Logger writes to a std logger and, when a token is configured, mirrors
// warnings and errors to Rollbar.
type Logger struct {
	std     *log.Logger
	rollbar bool
}

func New(std *log.Logger, cfg config.Config) *Logger {
	if std == nil {
		std = log.New(os.Stderr, "", log.LstdFlags)
	}
	l := &Logger{std: std}
	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Env)
		rollbar.SetCodeVersion(cfg.Build)
		if host, err := os.Hostname(); err == nil {
			rollbar.SetServerHost(host)
		}
		rollbar.SetEnabled(true)
		l.rollbar = true
	} else {
		rollbar.SetEnabled(false)
	}
	return l
}

// Nop discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{std: log.New(discard{}, "", 0)}
}

// expected args: error, map[string]interface{} (extras)
func (l *Logger) prepare(msg string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	return append(out, args...)
}

func (l *Logger) print(level, msg string, args []interface{}) {
	if len(args) == 0 {
		l.std.Printf("[%s] %s", level, msg)
		return
	}
	l.std.Printf("[%s] %s %s", level, msg, fmt.Sprint(args...))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.print("info", msg, args)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Warning(l.prepare(msg, args)...)
	}
	l.print("warn", msg, args)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Error(l.prepare(msg, args)...)
	}
	l.print("error", msg, args)
}

// Flush blocks until queued Rollbar items are sent.
func (l *Logger) Flush() {
	if l.rollbar {
		rollbar.Wait()
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
