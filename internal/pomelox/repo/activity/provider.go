package activity

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/wire"
)

// ProviderSet 提供活动仓储
var ProviderSet = wire.NewSet(ProvideActivityRepo)

// ProvideActivityRepo 提供 Activity 仓储实例
func ProvideActivityRepo(client *resty.Client, conf RetryConf) IActivityRepository {
	return NewActivityRepo(client, conf)
}
