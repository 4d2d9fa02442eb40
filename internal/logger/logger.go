package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 定义日志接口，参数为交替的键值对
type Logger interface {
	// Debug 记录调试信息
	Debug(msg string, args ...any)

	// Info 记录一般信息
	Info(msg string, args ...any)

	// Warn 记录警告信息
	Warn(msg string, args ...any)

	// Error 记录错误信息
	Error(msg string, args ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New 使用给定的 zap 实例构造 Logger
func New(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

// NewDefault 创建默认日志记录器，输出到控制台
func NewDefault(debug bool) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

// NewNop 创建空日志记录器，不输出任何日志
func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, pairs(args)...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, pairs(args)...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, pairs(args)...) }
func (l *zapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, pairs(args)...) }

// pairs 补齐缺失的值，避免奇数个参数导致 zap 丢弃字段
func pairs(args []any) []any {
	if len(args)%2 != 0 {
		args = append(args, "MISSING")
	}
	return args
}
