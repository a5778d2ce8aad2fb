//go:build !windows && !plan9

package rfslog

import (
	"log/syslog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syslogWriter adapts a *syslog.Writer to zapcore.WriteSyncer, routing
// every entry through syslog at LOG_NOTICE -- the encoder still does
// the level formatting, syslog only needs a byte sink.
type syslogWriter struct {
	w *syslog.Writer
}

func (s syslogWriter) Write(p []byte) (int, error) { return len(p), s.w.Notice(string(p)) }
func (s syslogWriter) Sync() error                 { return nil }

// NewSyslog returns a Logger that writes to the local syslog daemon
// under the given tag, mirroring the original implementation's
// log_init(program, console=false) path.
func NewSyslog(tag string) (Logger, error) {
	w, err := syslog.New(syslog.LOG_NOTICE|syslog.LOG_USER, tag)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), syslogWriter{w}, zapcore.DebugLevel)
	return &zapLogger{l: zap.New(core).Sugar()}, nil
}
