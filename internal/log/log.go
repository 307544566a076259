// SPDX-License-Identifier: MIT

// Package log wraps log/slog for the topomerge tools.
//
// A Logger writes JSON records to a size-rotated file when a log
// directory is configured and human-readable text to stderr otherwise.
// Methods accept a nil *Logger: debug and info records are then dropped
// while warnings and errors still reach the default slog logger.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the log file created inside the log directory.
const FileName = "topomerge.slog"

// Rotation limits for the file sink.
const (
	MaxSizeMB  = 64
	MaxBackups = 4
	MaxAgeDays = 14
)

// Logger is a nil-safe slog.Logger. LogFile is empty for stderr loggers.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// ParseLevel maps debug|info|warn|error onto slog levels.
// Unknown names fall back to info and report ok == false.
func ParseLevel(level string) (lvl slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a Logger at the given level. With a non-empty dir records
// go to dir/FileName through a rotating writer; otherwise to stderr.
func New(level string, dir string) *Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if dir == "" {
		return &Logger{
			Logger: slog.New(slog.NewTextHandler(os.Stderr, opts)),
			Start:  time.Now(),
		}
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
		Compress:   true,
	}
	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, opts)),
		LogFile: w.Filename,
		Start:   time.Now(),
	}
	l.Info("System information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	return l
}

// NewWriter returns a JSON Logger writing to w. Used by tests and by
// callers that own their sink.
func NewWriter(w io.Writer, level string) *Logger {
	lvl, _ := ParseLevel(level)
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		Start:  time.Now(),
	}
}

func (l *Logger) enabled(lvl slog.Level) bool {
	return l != nil && l.Logger != nil && l.Logger.Enabled(context.Background(), lvl)
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

// Debugf logs a printf-style message.
func (l *Logger) Debugf(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil || l.Logger == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.Warn(fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil || l.Logger == nil {
		slog.Error(msg, args...)
	} else {
		l.Logger.Error(msg, args...)
	}
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.Error(fmt.Sprintf(msg, args...))
}

// With returns a Logger carrying args on every record. A nil receiver
// stays nil.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.Logger == nil {
		return nil
	}
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		Start:   l.Start,
	}
}

// Stage logs the completion of a named pipeline stage with its duration.
func (l *Logger) Stage(name string, took time.Duration, args ...any) {
	if l.enabled(slog.LevelInfo) {
		args = append([]any{slog.String("stage", name), slog.Duration("took", took)}, args...)
		l.Logger.Info("stage done", args...)
	}
}
