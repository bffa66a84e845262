// Package logger provides tagged console logging for the marketplace engine.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu  sync.RWMutex
	log = newLogger()
	// logFile is the file or rotator behind log, nil for stdout/stderr.
	logFile io.Closer
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.TimeOnly,
	})
	l.SetLevel(levelFromEnv())
	return l
}

func levelFromEnv() logrus.Level {
	if lvl, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

// Configure sets level, format ("text" or "json") and output. Output is
// "stdout", "stderr" or a file path; files are rotated when maxAgeDays > 0.
func Configure(level, format, output string, maxAgeDays int) error {
	l := logrus.New()

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	l.SetLevel(lvl)

	switch format {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	var out io.Writer
	var file io.Closer
	switch output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		if maxAgeDays > 0 {
			lj := &lumberjack.Logger{Filename: output, MaxAge: maxAgeDays, MaxSize: 50, Compress: true}
			out, file = lj, lj
		} else {
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file %q: %w", output, err)
			}
			out, file = f, f
		}
	}
	l.SetOutput(out)

	mu.Lock()
	prev := logFile
	log, logFile = l, file
	mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// SetOutput redirects all log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	log.SetOutput(w)
}

func entry(tag string) *logrus.Entry {
	mu.RLock()
	defer mu.RUnlock()
	return log.WithField("tag", tag)
}

func Info(tag, msg string) {
	entry(tag).Info(msg)
}

// Success logs a completed step at info level.
func Success(tag, msg string) {
	entry(tag).WithField("ok", true).Info(msg)
}

func Warn(tag, msg string) {
	entry(tag).Warn(msg)
}

func Error(tag, msg string) {
	entry(tag).Error(msg)
}

func Debug(tag, msg string) {
	entry(tag).Debug(msg)
}

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	entry("APP").WithField("version", version).Info("fashion-insider engine starting")
}

// Section marks the start of a logical block in the log.
func Section(title string) {
	entry("APP").Info("── " + title + " ──")
}

// Stats logs a single named value.
func Stats(key string, value interface{}) {
	entry("STATS").WithField(key, value).Info(key)
}

// Server logs the listen address.
func Server(addr string) {
	entry("HTTP").WithField("addr", addr).Info("listening on http://" + addr)
}
