// Package logging is a small key/value facade over zap. Context-aware methods
// add the trace and span ids of the active OpenTelemetry span.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

const redactedValue = "[redacted]"

type Logger struct {
	zap    *zap.Logger
	redact map[string]struct{}
	synced *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// Options configures a JSON logger. Output defaults to stderr so command
// output on stdout stays machine-readable. Values logged under a Redact key
// are replaced before encoding.
type Options struct {
	Level   Level
	Output  io.Writer
	Service string
	Env     string
	Redact  []string
}

func New(opts Options) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(out)), opts.Level)

	var static []zap.Field
	if opts.Service != "" {
		static = append(static, zap.String("service", opts.Service))
	}
	if opts.Env != "" {
		static = append(static, zap.String("env", opts.Env))
	}

	redact := make(map[string]struct{}, len(opts.Redact))
	for _, key := range opts.Redact {
		redact[strings.ToLower(strings.TrimSpace(key))] = struct{}{}
	}

	z := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(static...),
	)
	return &Logger{zap: z, redact: redact, synced: new(atomic.Bool)}
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
// An empty value means info.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

func NewNop() *Logger {
	return &Logger{zap: zap.NewNop(), synced: new(atomic.Bool)}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// Sync flushes buffered entries once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.synced == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) With(args ...any) *Logger {
	l = l.orDefault()
	return l.derive(l.zap.With(l.fields(nil, args)...))
}

// Named returns a child logger tagged with component, for example "match".
func (l *Logger) Named(component string) *Logger {
	l = l.orDefault()
	return l.derive(l.zap.Named(component))
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, zapcore.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, zapcore.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, zapcore.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, zapcore.ErrorLevel, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.DebugLevel, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.InfoLevel, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.WarnLevel, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.ErrorLevel, msg, args)
}

func (l *Logger) orDefault() *Logger {
	if l == nil || l.zap == nil {
		return Default()
	}
	return l
}

func (l *Logger) derive(z *zap.Logger) *Logger {
	return &Logger{zap: z, redact: l.redact, synced: l.synced}
}

// write must be called directly from the exported level methods; the caller
// skip configured in New depends on it.
func (l *Logger) write(ctx context.Context, level zapcore.Level, msg string, args []any) {
	l = l.orDefault()
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(l.fields(ctx, args)...)
}

func (l *Logger) fields(ctx context.Context, args []any) []zap.Field {
	out := make([]zap.Field, 0, (len(args)+1)/2+2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}

		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		if _, hidden := l.redact[strings.ToLower(key)]; hidden {
			out = append(out, zap.String(key, redactedValue))
			continue
		}
		if err, ok := value.(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, value))
	}

	if ctx != nil {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			out = append(out,
				zap.String("trace_id", spanCtx.TraceID().String()),
				zap.String("span_id", spanCtx.SpanID().String()),
			)
		}
	}
	return out
}
