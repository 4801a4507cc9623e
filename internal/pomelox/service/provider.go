package service

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/internal/pomelox/service/identity"
	"github.com/pomelox/pomelox/internal/pomelox/service/stats"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	stats.ProviderSet,
	identity.ProviderSet,
	ProvideServices,
)

// ProvideServices 提供统一的 Services 实例
func ProvideServices(statsService *stats.ActivityStatsService, codec *identity.Codec) *Services {
	return NewServices(statsService, codec)
}
