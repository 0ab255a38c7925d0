// Package logging provides leveled log output for the converter. Messages go
// to the console, coloured per level, or to a rotating log file when one is
// configured.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/natefinch/lumberjack"
)

type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	SilentMode
)

// Logger records messages at different severities.
type Logger interface {
	// Debugf formats its arguments analogous to fmt.Printf and records the text
	// as a log message at Debug level.
	Debugf(format string, args ...interface{})

	// Infof is like Debugf, but at Info level.
	Infof(format string, args ...interface{})

	// Warningf is like Debugf, but at Warning level.
	Warningf(format string, args ...interface{})

	// Errorf is like Debugf, but at Error level.
	Errorf(format string, args ...interface{})

	// Shutdown makes sure logs are closed.
	Shutdown()
}

// LogConfig is the [logging] section of the configuration file.
type LogConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_log_size"`
	MaxAge  int    `toml:"max_log_age"`
	Level   string `toml:"level"`
}

var (
	mode   = InfoMode
	logger Logger = NewConsoleLogger(os.Stderr)
)

// SetLogger configures the package logger from c. Without a log file the
// console logger is kept.
func (c *LogConfig) SetLogger() error {
	if c == nil {
		return nil
	}
	if c.Level != "" {
		m, err := ParseMode(c.Level)
		if err != nil {
			return err
		}
		SetLogMode(m)
	}
	if c.Logfile == "" {
		return nil
	}
	SetLogger(&stdLogger{file: &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	}})
	return nil
}

// SetLogMode sets the severity required for a message to be printed.
func SetLogMode(newMode ModeFlag) {
	mode = newMode
}

func ParseMode(s string) (ModeFlag, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugMode, nil
	case "info":
		return InfoMode, nil
	case "warning", "warn":
		return WarningMode, nil
	case "error":
		return ErrorMode, nil
	case "silent":
		return SilentMode, nil
	}
	return InfoMode, fmt.Errorf("unknown log level %q", s)
}

// SetLogger replaces the package logger, shutting down the previous one.
func SetLogger(l Logger) {
	if logger != nil {
		logger.Shutdown()
	}
	logger = l
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		logger.Errorf(format, args...)
	}
}

func Shutdown() {
	logger.Shutdown()
}

// stdLogger writes "[LEVEL] message" lines. Console output gets a coloured
// level tag; file output gets a timestamp instead.
type stdLogger struct {
	out  io.Writer
	file *lumberjack.Logger
}

// NewConsoleLogger returns a Logger printing to w.
func NewConsoleLogger(w io.Writer) Logger {
	return &stdLogger{out: w}
}

var levelColors = map[string]*color.Color{
	"DEBUG":   color.New(color.FgHiBlack),
	"INFO":    color.New(color.FgBlue),
	"WARNING": color.New(color.FgYellow),
	"ERROR":   color.New(color.FgRed, color.Bold),
}

func (l *stdLogger) logf(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	msg = strings.TrimRight(msg, "\n")
	if l.file != nil {
		fmt.Fprintf(l.file, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, msg)
		return
	}
	levelColors[level].Fprintf(l.out, "[%s]", level)
	fmt.Fprintf(l.out, " %s\n", msg)
}

func (l *stdLogger) Debugf(format string, args ...interface{}) {
	l.logf("DEBUG", format, args...)
}

func (l *stdLogger) Infof(format string, args ...interface{}) {
	l.logf("INFO", format, args...)
}

func (l *stdLogger) Warningf(format string, args ...interface{}) {
	l.logf("WARNING", format, args...)
}

func (l *stdLogger) Errorf(format string, args ...interface{}) {
	l.logf("ERROR", format, args...)
}

func (l *stdLogger) Shutdown() {
	if l.file != nil {
		l.file.Close()
	}
}
