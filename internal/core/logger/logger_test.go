// Package logger provides logging utilities for the application.
package logger

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xzzpig/levelgate"
)

// observe 用 observer 替换全局 logger，测试结束后恢复
func observe(t *testing.T, level levelgate.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level.ZapLevel())
	original := L
	levelConfigMu.RLock()
	originalLevel := globalLevel
	levelConfigMu.RUnlock()
	setGlobal(zap.New(core), level)
	t.Cleanup(func() {
		L = original
		levelConfigMu.Lock()
		globalLevel = originalLevel
		levelConfigMu.Unlock()
		log.SetOutput(os.Stderr)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})
	return logs
}

func TestNamed_LevelFiltering(t *testing.T) {
	logs := observe(t, levelgate.Info)
	withLevels(t, "codegen=warn", levelgate.Info)

	l := Named("codegen")
	l.Debug("debug message - should be filtered")
	l.Info("info message - should be filtered")
	l.Warn("warn message - should be logged")
	l.Error("error message - should be logged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn message - should be logged", entries[0].Message)
	assert.Equal(t, "codegen", entries[0].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNamed_MoreVerboseThanGlobal(t *testing.T) {
	logs := observe(t, levelgate.Warn)
	withLevels(t, "codegen=debug", levelgate.Warn)

	// observer 的核心级别为 warn，命名 logger 仍可输出 debug
	Named("codegen").Debug("rendered")
	Named("config").Info("dropped")
	L.Info("dropped too")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rendered", entries[0].Message)
}

func TestNamed_WithKeepsOverride(t *testing.T) {
	logs := observe(t, levelgate.Warn)
	withLevels(t, "codegen=debug", levelgate.Warn)

	Named("codegen").With(zap.String("pkg", "db")).Debug("rendered")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "db", entries[0].ContextMap()["pkg"])
}

func TestNamed_Off(t *testing.T) {
	logs := observe(t, levelgate.Info)
	withLevels(t, "watcher=off", levelgate.Info)

	Named("watcher").Error("nothing")
	assert.Zero(t, logs.Len())
}

func TestSetGlobal_RedirectsStdLogAndSlog(t *testing.T) {
	logs := observe(t, levelgate.Info)

	log.Print("from std log")
	slog.Info("from slog", "key", "value")

	assert.Equal(t, 1, logs.FilterMessage("from std log").Len())
	slogEntries := logs.FilterMessage("from slog").All()
	require.Len(t, slogEntries, 1)
	assert.Equal(t, "value", slogEntries[0].ContextMap()["key"])
}

func TestInitLogger(t *testing.T) {
	original := L
	t.Cleanup(func() {
		L = original
		log.SetOutput(os.Stderr)
	})

	tests := []struct {
		name        string
		environment Environment
		level       levelgate.Level
		want        zapcore.Level
	}{
		{name: "development debug", environment: EnvironmentDevelopment, level: levelgate.Debug, want: zapcore.DebugLevel},
		{name: "production warn", environment: EnvironmentProduction, level: levelgate.Warn, want: zapcore.WarnLevel},
		{name: "trace maps to debug", environment: EnvironmentDevelopment, level: levelgate.Trace, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, InitLogger(tt.environment, tt.level))
			assert.True(t, L.Core().Enabled(tt.want))
			assert.False(t, L.Core().Enabled(tt.want-1))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	assert.True(t, isTerminal(tty))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
