// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// packages can log safely from tests and init code.
var Logger *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize replaces Logger. format is "console" (human-readable, stderr) or
// "json" (production encoder, stderr).
func Initialize(level, format string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.TimeKey = ""
		cfg.EncoderConfig.CallerKey = ""
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return errors.Newf("invalid log format %q (want console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	Logger = l.Sugar()
	return nil
}

// UseCore replaces Logger with one writing to core. Tests use it with
// zaptest/observer.
func UseCore(core zapcore.Core) {
	Logger = zap.New(core).Sugar()
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	if err := Logger.Sync(); err != nil && !isTerminalSyncError(err) {
		os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
	}
}

func isTerminalSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "inappropriate ioctl") || strings.Contains(msg, "invalid argument")
}
