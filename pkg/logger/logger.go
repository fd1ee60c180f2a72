package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level  string
	Format string
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init replaces the process logger. Format is "json" or "console".
func Init(conf Config) error {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", conf.Level, err)
	}

	zc := zap.NewProductionConfig()
	if conf.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = level > zapcore.DebugLevel

	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	root = l
	mu.Unlock()
	return nil
}

func Named(name string) (*zap.SugaredLogger, error) {
	if name == "" {
		return nil, fmt.Errorf("logger name is required")
	}
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name).Sugar(), nil
}

func MustNamed(name string) *zap.SugaredLogger {
	l, err := Named(name)
	if err != nil {
		panic(err)
	}
	return l
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

type ctxKey struct{}

// WithContext stores l in ctx so request scoped fields travel with it.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by WithContext or fallback.
func FromContext(ctx context.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return fallback
}
