// Package rfslog provides the structured, leveled logging used
// throughout the client worker and rendezvous listener. It plays the
// role the original implementation's syslog-priority log_it macros
// played (original_source/src/log.h), but as a small zap-backed
// Logger interface instead of preprocessor macros, with color only
// applied to console output written to a terminal.
package rfslog

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used by every package in this
// module below the root. Accepting an interface rather than a
// concrete *zap.Logger keeps internal packages free of a zap
// dependency in their public signatures, and lets tests pass Discard
// or their own implementation.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// With returns a Logger that annotates every subsequent message
	// with the given key/value pairs, e.g. With("server", addr).
	With(keysAndValues ...interface{}) Logger
}

// New returns a Logger that writes to w. console selects a
// human-readable encoder, colored when w is a terminal; when false,
// messages are written as JSON without color, suitable for a log
// aggregator.
func New(w *os.File, console bool) Logger {
	var encoder zapcore.Encoder
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if console {
		if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(cfg)
			core := zapcore.NewCore(encoder, zapcore.AddSync(colorable.NewColorable(w)), zapcore.DebugLevel)
			return &zapLogger{l: zap.New(core).Sugar()}
		}
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
	return &zapLogger{l: zap.New(core).Sugar()}
}

// Discard is a Logger that drops every message; tests that don't care
// about log output use it to avoid printing to stderr.
var Discard Logger = &zapLogger{l: zap.NewNop().Sugar()}

type zapLogger struct {
	l *zap.SugaredLogger
}

func (z *zapLogger) Debugf(format string, args ...interface{}) { z.l.Debugf(format, args...) }
func (z *zapLogger) Infof(format string, args ...interface{})  { z.l.Infof(format, args...) }
func (z *zapLogger) Warnf(format string, args ...interface{})  { z.l.Warnf(format, args...) }
func (z *zapLogger) Errorf(format string, args ...interface{}) { z.l.Errorf(format, args...) }

func (z *zapLogger) With(keysAndValues ...interface{}) Logger {
	return &zapLogger{l: z.l.With(keysAndValues...)}
}
