package http

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: http.go
 * @description: http server config
 */

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	AccessLog       bool
	ExposeMetrics   bool
	PProf           bool // 挂载 /debug/pprof
	BodyLimit       int // bytes
	ReadTimeout     int // seconds
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	Auth            Auth
}

type Auth struct {
	// SecretKey 为空时不在本地校验 token，仅透传给上游
	SecretKey string
	// AdminToken 用于 DELETE /local-data 全量清理
	AdminToken string
}

// SetDefaults 填充默认值
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 << 20
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 10
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 10
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30
	}
}

// FiberConfig 根据 Http 配置生成 fiber.Config
func (h *Http) FiberConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:               appName,
		BodyLimit:             h.BodyLimit,
		ReadTimeout:           time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(h.IdleTimeout) * time.Second,
		DisableStartupMessage: true,
		UnescapePath:          true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	}
}
