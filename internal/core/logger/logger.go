// Package logger provides logging utilities for the application.
package logger

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/xzzpig/levelgate"
)

// L is the global logger instance. It is a no-op logger until InitLogger runs.
var L = zap.NewNop()

// Environment represents the application environment type.
type Environment string

const (
	// EnvironmentDevelopment logs human-readable lines to stderr.
	EnvironmentDevelopment Environment = "development"
	// EnvironmentProduction logs JSON to stderr.
	EnvironmentProduction Environment = "production"
)

// InitLogger initializes the global logger with the specified environment and
// default level. Named loggers may override the level, see InitLevelConfig.
func InitLogger(environment Environment, level levelgate.Level) error {
	var cfg zap.Config

	if environment == EnvironmentProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		if isTerminal(os.Stderr) {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level.SetLevel(level.ZapLevel())

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	setGlobal(l, level)
	return nil
}

func setGlobal(l *zap.Logger, level levelgate.Level) {
	L = l
	levelConfigMu.Lock()
	globalLevel = level
	levelConfigMu.Unlock()
	levelCache.Clear()

	// Redirect standard log to zap
	zap.RedirectStdLog(L)

	// Redirect slog to zap
	slog.SetDefault(slog.New(zapslog.NewHandler(L.Core())))
}

// Sync flushes the global logger. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L.Sync()
}

// isTerminal 判断文件是否连接到终端（用于决定是否输出彩色日志）
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
