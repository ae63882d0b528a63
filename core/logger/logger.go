package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init configures the global logger. Called once from server bootstrap;
// any earlier logging falls back to a default production logger.
func Init(level string) {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	sugar = l.Sugar()
}

func get() *zap.SugaredLogger {
	once.Do(func() {
		if sugar == nil {
			l, _ := zap.NewProduction(zap.AddCallerSkip(1))
			sugar = l.Sugar()
		}
	})
	return sugar
}

// normalize pairs up variadic args for zap's keyed logging. Call sites
// sometimes pass a bare error as the only argument; rewrite that as an
// "error" key so zap does not complain about a dangling key.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		return []any{"detail", args[0]}
	}
	return append(args[:len(args)-1:len(args)-1], "detail", args[len(args)-1])
}

func Info(msg string, args ...any) {
	get().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Errorw(msg, normalize(args)...)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
