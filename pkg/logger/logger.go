// Package logger 基于zap的结构化日志
//
// 设计说明：
// 1. 生产环境输出JSON（便于ELK/Loki采集），开发环境输出彩色console
// 2. 每条日志携带service/env字段，便于多服务日志聚合后筛选
// 3. 请求级Logger通过context传递（见context.go），自动带上request_id、trace_id
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level  string // debug | info | warn | error
	Format string // json | console
	Output string // stdout | stderr | /path/to/file
}

// New 创建Logger
func New(cfg Config, service, env string) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	if output != "stdout" && output != "stderr" {
		if err := ensureLogDir(output); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
	}
	zcfg.OutputPaths = []string{output}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	zcfg.InitialFields = map[string]any{
		"service": service,
		"env":     env,
	}

	return zcfg.Build()
}

// MustNew 同New，失败时panic（仅用于main）
func MustNew(cfg Config, service, env string) *zap.Logger {
	l, err := New(cfg, service, env)
	if err != nil {
		panic(err)
	}
	return l
}

func ensureLogDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
