package http

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/wire"
)

// ProviderSet 提供 HTTP 相关的依赖
var ProviderSet = wire.NewSet(ProvideClient)

// ProvideClient 提供上游 resty 客户端
func ProvideClient(conf ClientConf) *resty.Client {
	return NewClient(conf)
}
