// Package logger builds the zap loggers used by the compiler.
//
// Diagnostics (warnings about unknown attributes or types) and debug
// traces of the template engine go through a *zap.SugaredLogger handed
// down from the command; packages never reach for a global.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Debug bool // enable debug level (template and context tracing)
	JSON  bool // structured JSON output instead of console text
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *zap.SugaredLogger {
	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}
	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(consoleConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// consoleConfig drops timestamps and callers so console output reads
// like compiler diagnostics: the level, the message, then any fields.
func consoleConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		ConsoleSeparator: " ",
		EncodeDuration:   zapcore.StringDurationEncoder,
	}
}
