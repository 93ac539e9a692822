package server

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions 日志输出配置
type LogOptions struct {
	File   string // 滚动日志文件路径，如 "app.log"
	Level  string // debug|info|warn|error
	Stdout bool   // 同时输出到控制台
}

// NewLogger 初始化 zap 日志到本地文件（支持滚动）
func NewLogger(opts LogOptions) (*zap.Logger, error) {
	level := zapcore.DebugLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	// 文件滚动策略：10MB 每文件，保留3个备份，7 天
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(lj), level)}
	if opts.Stdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	// 添加调用者信息（文件:行号）
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// SyncLogger 清理和同步缓冲
func SyncLogger(log *zap.Logger) {
	if log != nil {
		_ = log.Sync()
	}
}
