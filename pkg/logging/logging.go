// Package logging configures zap for the process and tags every
// update-processing invocation with its own id.
package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const updateIDKey contextKey = "update_id"

// Init builds the process-wide zap logger at the given level and installs it
// as the global, so zap.S()/zap.L() work everywhere. Unknown levels fall back
// to info.
func Init(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// WithUpdateID stamps a fresh update id on the context. Every inbound market
// update gets one so its log lines can be correlated across the pipeline.
func WithUpdateID(ctx context.Context) context.Context {
	return context.WithValue(ctx, updateIDKey, uuid.New().String())
}

// UpdateID returns the id stamped by WithUpdateID, or "no-update-id".
func UpdateID(ctx context.Context) string {
	if id, ok := ctx.Value(updateIDKey).(string); ok {
		return id
	}
	return "no-update-id"
}

// For returns the global sugared logger tagged with the context's update id.
func For(ctx context.Context) *zap.SugaredLogger {
	return zap.S().With("update_id", UpdateID(ctx))
}
