package router

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/internal/pomelox/service"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/metrics"
)

// ProviderSet 提供路由相关的依赖
var ProviderSet = wire.NewSet(ProvideRouter)

// ProvideRouter 提供路由实例
func ProvideRouter(httpConf *http.Http, services *service.Services, metricsServer *metrics.Server) *Router {
	return NewRouter(httpConf, services, metricsServer)
}
