// Package logger provides logging utilities for the application.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xzzpig/levelgate"
	"github.com/xzzpig/levelgate/internal/core/rules"
)

// levelCache 使用 sync.Map 实现无锁并发缓存
// Key: logger name (string), Value: levelgate.Level
var levelCache sync.Map

// levelConfig 存储按名称前缀配置的日志级别
var (
	levelConfigMu sync.RWMutex
	levelRules    *rules.RuleSet
	globalLevel   = levelgate.Info // 全局默认级别
)

// InitLevelConfig 初始化按名称的日志级别配置
// set 为 nil 时所有 logger 使用全局级别；未定义默认值时同样回退到全局级别
func InitLevelConfig(set *rules.RuleSet) {
	levelConfigMu.Lock()
	defer levelConfigMu.Unlock()
	levelRules = set
	// 清空缓存，因为配置已变更
	levelCache.Clear()
}

// GetLevelForName 根据日志名称查找最长匹配前缀的日志级别
// 使用按需缓存策略：首次计算后缓存，后续直接查表
// 匹配过程区分大小写
func GetLevelForName(name string) levelgate.Level {
	if cached, ok := levelCache.Load(name); ok {
		return cached.(levelgate.Level)
	}

	level := computeLevelForName(name)
	levelCache.Store(name, level)
	return level
}

// computeLevelForName 计算日志名称对应的级别（不使用缓存）
func computeLevelForName(name string) levelgate.Level {
	levelConfigMu.RLock()
	defer levelConfigMu.RUnlock()

	if levelRules == nil {
		return globalLevel
	}
	res := levelRules.Resolve(name)
	if res.Rule == nil && !levelRules.Defaulted {
		return globalLevel
	}
	return res.Level
}

// Named returns a child of L whose level comes from GetLevelForName. The
// level may be more verbose than the global one.
func Named(name string) *zap.Logger {
	level := GetLevelForName(name).ZapLevel()
	return L.Named(name).WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &levelFilterCore{Core: c, level: level}
	}))
}

// levelFilterCore 包装 zapcore.Core，用自身级别替换内层级别
// 与 levelgate.GateCore 不同，它可以比内层更详细
type levelFilterCore struct {
	zapcore.Core
	level zapcore.Level
}

// Enabled 检查给定级别是否应该被记录
func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.level
}

// Check 必须覆盖：嵌入类型的 Check() 调用的是它自己的 Enabled()
// 直接 AddCore 跳过内层级别判断
func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), level: c.level}
}

var (
	_ zapcore.Core         = (*levelFilterCore)(nil)
	_ zapcore.LevelEnabler = (*levelFilterCore)(nil)
)
