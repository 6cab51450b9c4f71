// internal/logging/logging.go
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects verbosity and encoding for the command-line logger.
type Options struct {
	Verbose bool // debug level
	Quiet   bool // warnings and errors only
	JSON    bool // JSON lines instead of console text
}

// New builds a logger writing to w. Quiet wins over Verbose.
func New(w io.Writer, opt Options) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case opt.Quiet:
		level = zapcore.WarnLevel
	case opt.Verbose:
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opt.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// Sync flushes buffered entries, ignoring errors from unsyncable sinks.
func Sync(l *zap.Logger) { _ = l.Sync() }
