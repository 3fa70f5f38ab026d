package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "portfolio-dashboard"

// Logger is the application logger. The embedded zap.Logger serves plain
// Info/Warn/Error calls; the *Context variants prefer a request-scoped logger
// stored with NewContext.
type Logger struct {
	*zap.Logger
}

type contextKey struct{}

// New builds a logger for the given level ("debug", "info", ...) and
// encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch encoding {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "", "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.InitialFields = map[string]interface{}{"service": serviceName}
	default:
		return nil, fmt.Errorf("invalid log encoding %q", encoding)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = atomicLevel

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{zl}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l.Logger.With(fields...)}
}

// NewContext stores log in ctx for the *Context helpers.
func NewContext(ctx context.Context, log *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the logger stored in ctx, or l.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if scoped, ok := ctx.Value(contextKey{}).(*Logger); ok && scoped != nil {
		return scoped
	}
	return l
}

func (l *Logger) logContext(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	// skip logContext and the exported helper so the caller is reported
	zl := l.FromContext(ctx).Logger.WithOptions(zap.AddCallerSkip(2))
	if ce := zl.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logContext(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logContext(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logContext(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logContext(ctx, zapcore.ErrorLevel, msg, fields)
}

func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func DurationField(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

func ErrorField(err error) zap.Field {
	return zap.Error(err)
}
