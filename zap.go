package levelgate

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLevel returns the lowest zap level that l lets through. zap has no trace
// level, so Trace and Debug both map to zapcore.DebugLevel. Off maps to
// zapcore.InvalidLevel, which nothing reaches.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case Trace, Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	default:
		return zapcore.InvalidLevel
	}
}

// gateCore wraps a zapcore.Core and drops entries more verbose than level.
type gateCore struct {
	zapcore.Core
	level zapcore.Level
}

// GateCore wraps core so that it only accepts entries max allows.
func GateCore(core zapcore.Core, max Level) zapcore.Core {
	return &gateCore{Core: core, level: max.ZapLevel()}
}

// Gate returns a child of l that drops entries more verbose than max. Pair it
// with a generated constant to cap a package's zap logger:
//
//	log := levelgate.Gate(base, maxLogLevel)
func Gate(l *zap.Logger, max Level) *zap.Logger {
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return GateCore(c, max)
	}))
}

func (c *gateCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.level
}

// Check must be overridden: the embedded Check consults the embedded Enabled,
// not the one above. The wrapped core still applies its own level.
func (c *gateCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return c.Core.Check(ent, ce)
	}
	return ce
}

func (c *gateCore) With(fields []zapcore.Field) zapcore.Core {
	return &gateCore{Core: c.Core.With(fields), level: c.level}
}

var (
	_ zapcore.Core         = (*gateCore)(nil)
	_ zapcore.LevelEnabler = (*gateCore)(nil)
)
