//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/internal/pomelox/bootstrap"
	"github.com/pomelox/pomelox/internal/pomelox/config"
	"github.com/pomelox/pomelox/internal/pomelox/repo/activity"
	"github.com/pomelox/pomelox/internal/pomelox/repo/localstate"
	"github.com/pomelox/pomelox/internal/pomelox/router"
	"github.com/pomelox/pomelox/internal/pomelox/service"
	"github.com/pomelox/pomelox/internal/pomelox/service/stats"
	"github.com/pomelox/pomelox/pkg/cache"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 基础设施
		log.ProviderSet,
		cache.ProviderSet,
		http.ProviderSet,
		metrics.ProviderSet,
		// 仓储层
		activity.ProviderSet,
		localstate.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}

func initStatsService(configPath string) (*stats.ActivityStatsService, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		cache.ProviderSet,
		http.ProviderSet,
		activity.ProviderSet,
		localstate.ProviderSet,
		stats.ProviderSet,
	))
}
