// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"fmt"

	"github.com/google/wire"
)

// defaultLocalMaxBytes is the default in-process store size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StoreConf 选择本地状态存储的后端
type StoreConf struct {
	Driver   string // redis | memory
	MaxBytes int
	Path     string // memory 驱动的持久化文件目录
}

// SetDefaults 填充默认值
func (c *StoreConf) SetDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = defaultLocalMaxBytes
	}
}

// ProviderSet 提供存储相关依赖
var ProviderSet = wire.NewSet(ProvideStore)

// ProvideStore 根据配置创建 Store，返回的 cleanup 负责关闭连接或落盘
func ProvideStore(conf StoreConf, redisConf Redis) (Store, func(), error) {
	conf.SetDefaults()

	switch conf.Driver {
	case DriverRedis:
		client, err := NewRedis(redisConf)
		if err != nil {
			return nil, nil, err
		}
		s := NewRedisStore(client)
		return s, func() { _ = s.Close() }, nil
	case DriverMemory:
		s := NewFastCache(FastCacheConfig{MaxBytes: conf.MaxBytes, Path: conf.Path})
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", conf.Driver)
	}
}
