package identity

import "github.com/google/wire"

var ProviderSet = wire.NewSet(ProvideCodec)

// ProvideCodec 提供二维码编解码实例
func ProvideCodec() *Codec {
	return NewCodec()
}
