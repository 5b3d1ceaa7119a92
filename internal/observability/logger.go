// Package observability builds the process logger.
package observability

import (
	"strings"

	"github.com/upb/casting-agency/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a structured zap.Logger from the observability settings.
// Unknown levels fall back to info; format is "json" or "console".
func NewLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := "json"
	encodeLevel := zapcore.LowercaseLevelEncoder
	if strings.EqualFold(cfg.LogFormat, "console") {
		encoding = "console"
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: encoding,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "ts",
			CallerKey:      "caller",
			StacktraceKey:  "stacktrace",
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}
