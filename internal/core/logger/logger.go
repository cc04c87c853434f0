package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

// Init builds the global logger. Development gets colored console output,
// production gets JSON. An unparseable level falls back to the preset default
// rather than failing startup.
func Init(environment string, level string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(l)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	globalLogger = logger.With(zap.String("service", "lifecycle-tracker"))
	return nil
}

// Get returns the global logger. Before Init it returns a no-op logger so
// library code and tests can log unconditionally.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
