package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger writing JSON to stderr at level
// ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", level, err)
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	zapcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapcfg.DisableStacktrace = true

	zl, err := zapcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zl, nil
}
