package localstate

import (
	"github.com/google/wire"
	"github.com/pomelox/pomelox/pkg/cache"
)

var ProviderSet = wire.NewSet(ProvideLocalStateRepo)

// ProvideLocalStateRepo 提供本地状态仓储实例
func ProvideLocalStateRepo(store cache.Store) ILocalStateRepository {
	return NewLocalStateRepo(store)
}
