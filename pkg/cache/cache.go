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
	"context"
	"errors"
	"path"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Store 本地键值存储接口
// 值均为字符串，调用方自行负责序列化
type Store interface {
	// Get 获取值，key 不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	// Set 写入值
	Set(ctx context.Context, key string, value string) error
	// Remove 删除 key，不存在时不报错
	Remove(ctx context.Context, keys ...string) error
	// ListKeys 列出匹配 glob 模式的 key，pattern 为空时返回全部
	ListKeys(ctx context.Context, pattern string) ([]string, error)
}

// matchKey applies redis-style glob matching for the in-process store.
// Keys never contain '/', so path.Match has the same semantics here.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}
