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
	"sync"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisStore Redis 实现的 Store
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore 创建 Redis 存储实例
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	// cluster 模式下多 key DEL 可能跨 slot，逐个删除
	if _, ok := r.client.(*redis.ClusterClient); ok {
		for _, key := range keys {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return err
			}
		}
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// ListKeys 使用 SCAN 遍历，避免 KEYS 阻塞
func (r *RedisStore) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	if cluster, ok := r.client.(*redis.ClusterClient); ok {
		var (
			keys []string
			mu   sync.Mutex
		)
		err := cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			nodeKeys, err := scanAll(ctx, node, pattern)
			if err != nil {
				return err
			}
			mu.Lock()
			keys = append(keys, nodeKeys...)
			mu.Unlock()
			return nil
		})
		return keys, err
	}

	return scanAll(ctx, r.client, pattern)
}

// Close 关闭底层连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func scanAll(ctx context.Context, c redis.Cmdable, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
