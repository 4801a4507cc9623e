package stats

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/internal/pomelox/repo/activity"
	"github.com/pomelox/pomelox/internal/pomelox/repo/localstate"
)

var ProviderSet = wire.NewSet(ProvideActivityStatsService)

// ProvideActivityStatsService 提供统计服务实例
func ProvideActivityStatsService(activityRepo activity.IActivityRepository, stateRepo localstate.ILocalStateRepository) *ActivityStatsService {
	return NewActivityStatsService(activityRepo, stateRepo)
}
