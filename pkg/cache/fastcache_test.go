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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastCache_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	_, err := fc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fc.Set(ctx, "user_1_bookmarked_activities", `["1","2"]`))
	val, err := fc.Get(ctx, "user_1_bookmarked_activities")
	require.NoError(t, err)
	assert.Equal(t, `["1","2"]`, val)

	require.NoError(t, fc.Set(ctx, "user_1_bookmarked_activities", `["3"]`))
	val, err = fc.Get(ctx, "user_1_bookmarked_activities")
	require.NoError(t, err)
	assert.Equal(t, `["3"]`, val)

	require.NoError(t, fc.Remove(ctx, "user_1_bookmarked_activities", "never_set"))
	_, err = fc.Get(ctx, "user_1_bookmarked_activities")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFastCache_EmptyValue(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	require.NoError(t, fc.Set(ctx, "k", ""))
	val, err := fc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestFastCache_ListKeys(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	for _, key := range []string{
		"user_1_bookmarked_activities",
		"user_1_reviewed_activities",
		"user_22_bookmarked_activities",
		"settings_theme",
	} {
		require.NoError(t, fc.Set(ctx, key, "[]"))
	}

	all, err := fc.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.NotContains(t, all, indexKey)

	bookmarks, err := fc.ListKeys(ctx, "user_*_bookmarked_activities")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_1_bookmarked_activities", "user_22_bookmarked_activities"}, bookmarks)

	fc.Clear()
	all, err = fc.ListKeys(ctx, "*")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFastCache_PersistAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	fc := NewFastCache(FastCacheConfig{Path: dir})
	require.NoError(t, fc.Set(ctx, "user_5_reviewed_activities", `["9"]`))
	require.NoError(t, fc.Close())

	reopened := NewFastCache(FastCacheConfig{Path: dir})
	val, err := reopened.Get(ctx, "user_5_reviewed_activities")
	require.NoError(t, err)
	assert.Equal(t, `["9"]`, val)

	keys, err := reopened.ListKeys(ctx, "user_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_5_reviewed_activities"}, keys)
}

func TestFastCache_PersistsEveryWrite(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	// no Close: simulates a crash after the writes
	fc := NewFastCache(FastCacheConfig{Path: dir})
	require.NoError(t, fc.Set(ctx, "user_1_bookmarked_activities", `["3"]`))
	require.NoError(t, fc.Set(ctx, "user_2_bookmarked_activities", `["4"]`))
	require.NoError(t, fc.Remove(ctx, "user_2_bookmarked_activities"))

	reopened := NewFastCache(FastCacheConfig{Path: dir})
	val, err := reopened.Get(ctx, "user_1_bookmarked_activities")
	require.NoError(t, err)
	assert.Equal(t, `["3"]`, val)

	_, err = reopened.Get(ctx, "user_2_bookmarked_activities")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchKey(t *testing.T) {
	assert.True(t, matchKey("", "anything"))
	assert.True(t, matchKey("*", "anything"))
	assert.True(t, matchKey("user_*_reviewed_activities", "user_7_reviewed_activities"))
	assert.False(t, matchKey("user_*_reviewed_activities", "user_7_bookmarked_activities"))
	assert.False(t, matchKey("[", "x"))
}

func TestProvideStore(t *testing.T) {
	s, cleanup, err := ProvideStore(StoreConf{}, Redis{})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &FastCache{}, s)

	_, _, err = ProvideStore(StoreConf{Driver: "etcd"}, Redis{})
	assert.Error(t, err)
}
