package logger

import (
	"context"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"
)

var (
	globalLogger *ZapLogger
	once         sync.Once
	mu           sync.RWMutex
)

// SetGlobalLogger sets the global logger instance.
// Called once during application startup.
func SetGlobalLogger(logger *ZapLogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance, falling back to a
// default production logger if none has been set.
func GetGlobalLogger() *ZapLogger {
	mu.RLock()
	defer mu.RUnlock()

	if globalLogger == nil {
		once.Do(func() {
			defaultLogger, _ := zap.NewProduction()
			globalLogger = &ZapLogger{
				Logger: defaultLogger,
				sugar:  defaultLogger.Sugar(),
			}
		})
	}

	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	GetGlobalLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...Field) {
	GetGlobalLogger().Fatal(msg, fields...)
}

// InfoCtx logs an info message carrying the New Relic transaction from ctx
func InfoCtx(ctx context.Context, msg string, fields ...Field) {
	logWithTxn(ctx, func(l *zap.Logger) { l.Info(msg, fields...) })
}

// WarnCtx logs a warning message carrying the New Relic transaction from ctx
func WarnCtx(ctx context.Context, msg string, fields ...Field) {
	logWithTxn(ctx, func(l *zap.Logger) { l.Warn(msg, fields...) })
}

// ErrorCtx logs an error message carrying the New Relic transaction from ctx
func ErrorCtx(ctx context.Context, msg string, fields ...Field) {
	logWithTxn(ctx, func(l *zap.Logger) { l.Error(msg, fields...) })
}

// DebugCtx logs a debug message carrying the New Relic transaction from ctx
func DebugCtx(ctx context.Context, msg string, fields ...Field) {
	logWithTxn(ctx, func(l *zap.Logger) { l.Debug(msg, fields...) })
}

func logWithTxn(ctx context.Context, log func(*zap.Logger)) {
	gl := GetGlobalLogger()
	if txn := newrelic.FromContext(ctx); txn != nil {
		log(gl.WithNewRelicContext(txn))
		return
	}
	log(gl.Logger)
}
