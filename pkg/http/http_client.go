package http

import (
	"time"

	"github.com/go-resty/resty/v2"
)

/**
 * @file: http_client.go
 * @description: http client
 */

// ClientConf 上游 HTTP 客户端配置
type ClientConf struct {
	BaseURL   string
	Timeout   time.Duration // 单次请求超时
	UserAgent string
	Debug     bool
}

// NewClient 创建 resty 客户端；重试由调用方通过 pkg/retry 控制
func NewClient(conf ClientConf) *resty.Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetDebug(conf.Debug)

	if conf.UserAgent != "" {
		client.SetHeader("User-Agent", conf.UserAgent)
	}
	return client
}
