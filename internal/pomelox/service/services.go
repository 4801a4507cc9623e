package service

import (
	"github.com/pomelox/pomelox/internal/pomelox/service/identity"
	"github.com/pomelox/pomelox/internal/pomelox/service/stats"
)

// Services 统一管理所有 service
type Services struct {
	Stats    *stats.ActivityStatsService
	Identity *identity.Codec
}

func NewServices(statsService *stats.ActivityStatsService, codec *identity.Codec) *Services {
	return &Services{
		Stats:    statsService,
		Identity: codec,
	}
}
