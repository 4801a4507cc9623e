package config

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/internal/pomelox/repo/activity"
	"github.com/pomelox/pomelox/pkg/cache"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideRedisConfig,
	ProvideStoreConfig,
	ProvideClientConfig,
	ProvideRetryConfig,
	ProvideMetricsConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	return NewConf(configPath)
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideRedisConfig 提供 Redis 配置
func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

// ProvideStoreConfig 提供本地状态存储配置
func ProvideStoreConfig(appConf *AppConfig) cache.StoreConf {
	storeConf := appConf.Store
	storeConf.SetDefaults()
	return storeConf
}

// ProvideClientConfig 提供上游客户端配置
func ProvideClientConfig(appConf *AppConfig) http.ClientConf {
	appConf.Upstream.SetDefaults()
	return appConf.Upstream.ClientConf()
}

// ProvideRetryConfig 提供上游重试配置
func ProvideRetryConfig(appConf *AppConfig) activity.RetryConf {
	appConf.Upstream.SetDefaults()
	return appConf.Upstream.RetryConf()
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	metricsConfig := appConf.Metrics
	metricsConfig.SetDefaults()
	return metricsConfig
}
