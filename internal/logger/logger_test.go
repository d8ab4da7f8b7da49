package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	logs := recorded.All()
	require.Len(t, logs, 4)
	expected := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range logs {
		assert.Equal(t, expected[i], entry.Level)
	}
}

func TestZapLogger_Fields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Info("round over",
		F("score", 12),
		RoundID("abc"),
		F("factor", 1.2),
		F("new_high", true),
		F("elapsed", 3*time.Second),
		Err(errors.New("disk full")),
	)

	logs := recorded.All()
	require.Len(t, logs, 1)
	ctx := logs[0].ContextMap()
	assert.Equal(t, int64(12), ctx["score"])
	assert.Equal(t, "abc", ctx["round_id"])
	assert.Equal(t, 1.2, ctx["factor"])
	assert.Equal(t, true, ctx["new_high"])
	assert.Equal(t, 3*time.Second, ctx["elapsed"])
	assert.Equal(t, "disk full", ctx["error"])
}

type phase int

func (p phase) String() string { return [...]string{"menu", "playing"}[p] }

type countingStringer struct{ calls *int }

func (c countingStringer) String() string {
	*c.calls++
	return "counted"
}

func TestZapLogger_GameFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	t.Run("empty round id is dropped", func(t *testing.T) {
		logger.Info("menu shown", RoundID(""), F("phase", phase(0)))

		ctx := recorded.TakeAll()[0].ContextMap()
		assert.NotContains(t, ctx, KeyRoundID)
		assert.Equal(t, "menu", ctx["phase"])
	})

	t.Run("stringers log by name", func(t *testing.T) {
		logger.Info("phase changed", RoundID("r1"), F("phase", phase(1)))

		ctx := recorded.TakeAll()[0].ContextMap()
		assert.Equal(t, "r1", ctx[KeyRoundID])
		assert.Equal(t, "playing", ctx["phase"])
	})

	t.Run("component is always a string", func(t *testing.T) {
		logger.With(F(KeyComponent, 7)).Info("tagged")

		ctx := recorded.TakeAll()[0].ContextMap()
		assert.Equal(t, "7", ctx[KeyComponent])
	})

	t.Run("disabled levels skip conversion", func(t *testing.T) {
		calls := 0
		logger.Debug("hidden", F("value", countingStringer{calls: &calls}))
		assert.Empty(t, recorded.TakeAll())

		assert.Equal(t, 0, calls)

		logger.Info("shown", F("value", countingStringer{calls: &calls}))
		entries := recorded.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "counted", entries[0].ContextMap()["value"])
		assert.Equal(t, 1, calls)
	})
}

func TestZapConfig(t *testing.T) {
	dev := zapConfig(DevelopmentConfig())
	assert.Equal(t, "console", dev.Encoding)
	assert.Nil(t, dev.Sampling)
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())

	prod := zapConfig(DefaultConfig())
	assert.Equal(t, "json", prod.Encoding)
	require.NotNil(t, prod.Sampling)
	assert.Equal(t, 100, prod.Sampling.Initial)

	fallback := zapConfig(LoggerConfig{Level: "loud"})
	assert.Equal(t, zapcore.InfoLevel, fallback.Level.Level())
}

func TestZapLogger_WithComponent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := Component(FromZap(zap.New(core)), "game")

	logger.Debug("filtered out")
	logger.Info("started")

	logs := recorded.FilterField(zap.String("component", "game")).All()
	require.Len(t, logs, 1)
	assert.Equal(t, "started", logs[0].Message)
}

func TestConfigFromEnv(t *testing.T) {
	env := func(values map[string]string) func(string) string {
		return func(key string) string { return values[key] }
	}

	t.Run("development by default", func(t *testing.T) {
		cfg := configFromEnv(env(nil))
		assert.Equal(t, DevelopmentConfig(), cfg)
	})

	t.Run("production with overrides", func(t *testing.T) {
		cfg := configFromEnv(env(map[string]string{
			"ALIEN_DEFENSE_ENV":        "Production",
			"ALIEN_DEFENSE_LOG_LEVEL":  "warn",
			"ALIEN_DEFENSE_LOG_FORMAT": "console",
		}))
		assert.False(t, cfg.Development)
		assert.True(t, cfg.EnableSampling)
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
	})
}

func TestNewZapLogger(t *testing.T) {
	logger, err := NewZapLogger(LoggerConfig{Level: "bogus", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	Nop().Info("discarded")
}
