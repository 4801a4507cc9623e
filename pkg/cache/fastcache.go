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
	"sort"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/pkg/log"
)

// indexKey 保存 key 索引，fastcache 本身无法遍历 key
const indexKey = "__pomelox_store_keys__"

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int    // Maximum bytes for fastcache, default 32MB
	Path     string // 持久化目录，为空时仅保存在内存
}

// FastCache is an in-process Store backed by VictoriaMetrics fastcache.
// When Path is set the data is loaded on start and written back after every
// Set/Remove. fastcache may evict entries once MaxBytes is reached, so the
// redis driver is the one to use for production data.
type FastCache struct {
	cache *fastcache.Cache
	path  string
	mu    sync.RWMutex
	keys  map[string]struct{}
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultLocalMaxBytes
	}

	var c *fastcache.Cache
	if conf.Path != "" {
		c = fastcache.LoadFromFileOrNew(conf.Path, maxBytes)
	} else {
		c = fastcache.New(maxBytes)
	}

	fc := &FastCache{
		cache: c,
		path:  conf.Path,
		keys:  make(map[string]struct{}),
	}
	fc.loadIndex()
	return fc
}

func (fc *FastCache) Get(_ context.Context, key string) (string, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if _, ok := fc.keys[key]; !ok {
		return "", ErrNotFound
	}
	value := fc.cache.GetBig(nil, []byte(key))
	if value == nil && !fc.cache.Has([]byte(key)) {
		// evicted by fastcache
		return "", ErrNotFound
	}
	return string(value), nil
}

func (fc *FastCache) Set(_ context.Context, key string, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.SetBig([]byte(key), []byte(value))
	if _, ok := fc.keys[key]; !ok {
		fc.keys[key] = struct{}{}
		fc.saveIndex()
	}
	return fc.persist()
}

func (fc *FastCache) Remove(_ context.Context, keys ...string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	changed := false
	for _, key := range keys {
		fc.cache.Del([]byte(key))
		if _, ok := fc.keys[key]; ok {
			delete(fc.keys, key)
			changed = true
		}
	}
	if changed {
		fc.saveIndex()
	}
	return fc.persist()
}

func (fc *FastCache) ListKeys(_ context.Context, pattern string) ([]string, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	keys := make([]string, 0, len(fc.keys))
	for key := range fc.keys {
		if matchKey(pattern, key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes all items from the cache
func (fc *FastCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Reset()
	fc.keys = make(map[string]struct{})
}

// Stats returns cache statistics
func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}

// Close 持久化到磁盘（如果配置了 Path）
func (fc *FastCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.persist()
}

// persist must be called with mu held.
func (fc *FastCache) persist() error {
	if fc.path == "" {
		return nil
	}
	if err := fc.cache.SaveToFile(fc.path); err != nil {
		log.Errorw("failed to save local store", "path", fc.path, "error", err)
		return err
	}
	return nil
}

// saveIndex must be called with mu held.
func (fc *FastCache) saveIndex() {
	keys := make([]string, 0, len(fc.keys))
	for key := range fc.keys {
		keys = append(keys, key)
	}
	data, err := sonic.Marshal(keys)
	if err != nil {
		log.Warnw("failed to marshal local store index", "error", err)
		return
	}
	fc.cache.SetBig([]byte(indexKey), data)
}

func (fc *FastCache) loadIndex() {
	data := fc.cache.GetBig(nil, []byte(indexKey))
	if len(data) == 0 {
		return
	}
	var keys []string
	if err := sonic.Unmarshal(data, &keys); err != nil {
		log.Warnw("local store index is corrupted, starting empty", "error", err)
		return
	}
	for _, key := range keys {
		fc.keys[key] = struct{}{}
	}
}
