// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger is the naming server's structured logger: a slog.Logger
// whose handler renders either the teacher's "time=... severity=... message=..."
// text line or a "{timestamp,severity,message}" JSON object, routed
// through an AsyncLogger so a log call never blocks on file I/O. TRACE is
// a level below slog's built-in Debug, so that the five logging severities
// cfg.LogSeverity accepts besides OFF each map to a distinct level.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/distfs/naming/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Extra slog levels this package recognizes, below/above the built-ins.
const (
	LevelTrace = slog.Level(-8)
	LevelOff   = slog.Level(12)
)

func severityOf(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "TRACE"
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

func levelOf(severity cfg.LogSeverity) slog.Level {
	switch severity {
	case cfg.TraceLogSeverity:
		return LevelTrace
	case cfg.DebugLogSeverity:
		return slog.LevelDebug
	case cfg.WarningLogSeverity:
		return slog.LevelWarn
	case cfg.ErrorLogSeverity:
		return slog.LevelError
	case cfg.OffLogSeverity:
		return LevelOff
	default:
		return slog.LevelInfo
	}
}

// handler is a minimal slog.Handler rendering the two fixed formats the
// naming server supports; it ignores grouping and structured attrs since
// every call site here logs a single formatted message.
type handler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  *slog.LevelVar
	prefix string
	json   bool
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := h.prefix + r.Message
	if h.json {
		type payload struct {
			Timestamp struct {
				Seconds int64 `json:"seconds"`
				Nanos   int   `json:"nanos"`
			} `json:"timestamp"`
			Severity string `json:"severity"`
			Message  string `json:"message"`
		}
		var p payload
		p.Timestamp.Seconds = r.Time.Unix()
		p.Timestamp.Nanos = r.Time.Nanosecond()
		p.Severity = severityOf(r.Level)
		p.Message = msg
		return json.NewEncoder(h.out).Encode(p)
	}

	_, err := fmt.Fprintf(h.out, "time=%q severity=%s message=%q\n",
		r.Time.Format("2006/01/02 15:04:05.000000"), severityOf(r.Level), msg)
	return err
}

func (h *handler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *handler) WithGroup(_ string) slog.Handler      { return h }

// loggerFactory builds handlers for the configured format.
type loggerFactory struct {
	format string
}

func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, level *slog.LevelVar, prefix string) slog.Handler {
	return &handler{
		mu:     &sync.Mutex{},
		out:    w,
		level:  level,
		prefix: prefix,
		json:   f.format == string(cfg.JSONLogFormat),
	}
}

var (
	defaultLoggerFactory = &loggerFactory{format: string(cfg.TextLogFormat)}
	programLevel         = new(slog.LevelVar)
	defaultLogger        = slog.New(defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, programLevel, ""))
	asyncLogger          *AsyncLogger
)

func setLoggingLevel(severity string, level *slog.LevelVar) {
	level.Set(levelOf(cfg.LogSeverity(severity)))
}

// Init rebuilds the default logger from lc: text or json format, the
// configured severity floor, and, if lc.FilePath is set, a rotating file
// sink (gopkg.in/natefinch/lumberjack.v2) wrapped in an AsyncLogger so
// writes never block the lock/replication engine.
func Init(lc cfg.LoggingConfig) {
	defaultLoggerFactory.format = string(lc.Format)
	setLoggingLevel(string(lc.Severity), programLevel)

	var out io.Writer = os.Stderr
	if lc.FilePath != "" {
		if asyncLogger != nil {
			asyncLogger.Close()
		}
		asyncLogger = NewAsyncLogger(&lumberjack.Logger{
			Filename:   lc.FilePath,
			MaxSize:    lc.LogRotate.MaxFileSizeMb,
			MaxBackups: lc.LogRotate.BackupFileCount,
			Compress:   lc.LogRotate.Compress,
		}, 4096)
		out = asyncLogger
	}

	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(out, programLevel, ""))
}

// Shutdown flushes and closes the file sink, if one is active.
func Shutdown() error {
	if asyncLogger == nil {
		return nil
	}
	err := asyncLogger.Close()
	asyncLogger = nil
	return err
}

func logf(level slog.Level, format string, v ...any) {
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

func Tracef(format string, v ...any) { logf(LevelTrace, format, v...) }
func Debugf(format string, v ...any) { logf(slog.LevelDebug, format, v...) }
func Infof(format string, v ...any)  { logf(slog.LevelInfo, format, v...) }
func Warnf(format string, v ...any)  { logf(slog.LevelWarn, format, v...) }
func Errorf(format string, v ...any) { logf(slog.LevelError, format, v...) }
