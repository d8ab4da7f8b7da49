package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements Logger on top of a zap.Logger.
type ZapLogger struct {
	zap *zap.Logger
}

// NewZapLogger builds a zap logger from cfg. An unknown level falls back to info.
func NewZapLogger(cfg LoggerConfig) (*ZapLogger, error) {
	z, err := zapConfig(cfg).Build(
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}
	return &ZapLogger{zap: z}, nil
}

func zapConfig(cfg LoggerConfig) zap.Config {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zc.Encoding = "json"
	if cfg.Format == "console" {
		zc.Encoding = "console"
	}

	zc.Sampling = nil
	if cfg.EnableSampling {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    cfg.SampleInitial,
			Thereafter: cfg.SampleThereafter,
		}
	}
	return zc
}

// FromZap adapts an existing zap logger, typically one built on an observer core in tests.
func FromZap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{zap: z}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &ZapLogger{zap: zap.NewNop()}
}

// zapField converts one game field. Rounds that have not started carry an empty
// round_id, which is dropped rather than logged as "".
func zapField(f Field) zap.Field {
	switch f.Key {
	case KeyRoundID:
		if id, ok := f.Value.(string); ok && id == "" {
			return zap.Skip()
		}
	case KeyComponent:
		return zap.String(f.Key, fmt.Sprint(f.Value))
	}

	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case uint64:
		return zap.Uint64(f.Key, v)
	case float64:
		return zap.Float64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v)
	case error:
		return zap.NamedError(f.Key, v)
	case fmt.Stringer:
		// phases, cues and star variants log by name
		return zap.Stringer(f.Key, v)
	}
	return zap.Any(f.Key, f.Value)
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zapField(f)
	}
	return out
}

// write converts fields only when the level is enabled, which keeps per-frame
// debug logging cheap in release builds.
func (l *ZapLogger) write(level zapcore.Level, msg string, fields []Field) {
	if ce := l.zap.Check(level, msg); ce != nil {
		ce.Write(zapFields(fields)...)
	}
}

func (l *ZapLogger) Debug(msg string, fields ...Field) { l.write(zapcore.DebugLevel, msg, fields) }

func (l *ZapLogger) Info(msg string, fields ...Field) { l.write(zapcore.InfoLevel, msg, fields) }

func (l *ZapLogger) Warn(msg string, fields ...Field) { l.write(zapcore.WarnLevel, msg, fields) }

func (l *ZapLogger) Error(msg string, fields ...Field) { l.write(zapcore.ErrorLevel, msg, fields) }

func (l *ZapLogger) Fatal(msg string, fields ...Field) { l.write(zapcore.FatalLevel, msg, fields) }

func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{zap: l.zap.With(zapFields(fields)...)}
}

func (l *ZapLogger) Sync() error {
	return l.zap.Sync()
}
