// Package config 加载运行配置：.env → 环境变量 → 命令行参数（后者覆盖前者）
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	LogFile         string
	LogLevel        string
	LogStdout       bool
	AllowedOrigins  []string
	SendBuffer      int
	PingInterval    time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

var ErrInvalid = errors.New("invalid configuration")

// Load 读取配置；.env 不存在不算错误
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            getEnv("ADDR", ":4000"),
		LogFile:         getEnv("LOG_FILE", "app.log"),
		LogLevel:        getEnv("LOG_LEVEL", "debug"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		SendBuffer:      64,
		PingInterval:    30 * time.Second,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
	var err error
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ADDR") == "" {
		cfg.Addr = ":" + port
	}
	if cfg.LogStdout, err = envBool("LOG_STDOUT", false); err != nil {
		return nil, err
	}
	if cfg.SendBuffer, err = envInt("SEND_BUFFER", cfg.SendBuffer); err != nil {
		return nil, err
	}
	for key, d := range map[string]*time.Duration{
		"PING_INTERVAL":    &cfg.PingInterval,
		"READ_TIMEOUT":     &cfg.ReadTimeout,
		"WRITE_TIMEOUT":    &cfg.WriteTimeout,
		"SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	} {
		if *d, err = envDuration(key, *d); err != nil {
			return nil, err
		}
	}

	fs := flag.NewFlagSet("xoarena", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :4000")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "rolling log file path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.BoolVar(&cfg.LogStdout, "log-stdout", cfg.LogStdout, "also log to stdout")
	fs.IntVar(&cfg.SendBuffer, "send-buffer", cfg.SendBuffer, "per-connection outbound queue size")
	fs.DurationVar(&cfg.PingInterval, "ping-interval", cfg.PingInterval, "websocket ping interval")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send buffer must be positive, got %d", ErrInvalid, c.SendBuffer)
	case c.PingInterval <= 0 || c.ReadTimeout <= c.PingInterval:
		return fmt.Errorf("%w: read timeout %s must exceed ping interval %s", ErrInvalid, c.ReadTimeout, c.PingInterval)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalid)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
