package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pomelox/pomelox/internal/pomelox/repo/activity"
	"github.com/pomelox/pomelox/pkg/cache"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/spf13/viper"
)

// UpstreamConfig PomeloX API 配置
type UpstreamConfig struct {
	BaseURL     string
	Timeout     int // seconds
	UserAgent   string
	Debug       bool
	MaxAttempts int
	RetryStepMs int
}

func (u *UpstreamConfig) SetDefaults() {
	if u.BaseURL == "" {
		u.BaseURL = "https://www.vitaglobal.icu"
	}
	if u.Timeout <= 0 {
		u.Timeout = 10
	}
	if u.UserAgent == "" {
		u.UserAgent = "pomelox-bff"
	}
	if u.MaxAttempts <= 0 {
		u.MaxAttempts = 3
	}
	if u.RetryStepMs <= 0 {
		u.RetryStepMs = 500
	}
}

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Redis    cache.Redis
	Store    cache.StoreConf
	Upstream UpstreamConfig
	Metrics  metrics.MetricsConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return &cfg
}

// LoadConfigFile load config file
func LoadConfigFile(confDir string) (AppConfig, error) {
	var conf AppConfig

	config := viper.New()
	config.SetConfigFile(confDir) //文件名
	if err := config.ReadInConfig(); err != nil {
		return conf, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := config.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("config file changed, reload", "path", e.Name)
		var reloaded AppConfig
		if err := config.Unmarshal(&reloaded); err != nil {
			log.Errorw("failed to unmarshal configuration file", "path", e.Name, "error", err)
			return
		}
		// 只有日志级别支持热更新，其余配置需重启
		log.SetLevel(reloaded.Log.Level)
		log.Infow("log level reloaded", "level", log.GetLevel())
	})

	log.Infow("config file loaded",
		"path", confDir,
	)
	return conf, nil
}

// ClientConf 转换为 resty 客户端配置
func (u UpstreamConfig) ClientConf() http.ClientConf {
	return http.ClientConf{
		BaseURL:   u.BaseURL,
		Timeout:   time.Duration(u.Timeout) * time.Second,
		UserAgent: u.UserAgent,
		Debug:     u.Debug,
	}
}

// RetryConf 转换为重试配置
func (u UpstreamConfig) RetryConf() activity.RetryConf {
	return activity.RetryConf{
		MaxAttempts: u.MaxAttempts,
		Step:        time.Duration(u.RetryStepMs) * time.Millisecond,
	}
}
