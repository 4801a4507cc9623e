package localstate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/pkg/cache"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/num"
)

// Kind 用户本地状态集合类型
type Kind string

const (
	KindBookmarked Kind = "bookmarked"
	KindReviewed   Kind = "reviewed"
)

var allKinds = []Kind{KindBookmarked, KindReviewed}

// Key user_<id>_bookmarked_activities / user_<id>_reviewed_activities
func Key(userId int64, kind Kind) string {
	return fmt.Sprintf("user_%d_%s_activities", userId, kind)
}

func keyPattern(kind Kind) string {
	return fmt.Sprintf("user_*_%s_activities", kind)
}

type ILocalStateRepository interface {
	// GetSet 读取集合，未写入或内容损坏时返回空集合
	GetSet(ctx context.Context, userId int64, kind Kind) (*IdSet, error)
	SaveSet(ctx context.Context, userId int64, kind Kind, set *IdSet) error
	ClearUser(ctx context.Context, userId int64) error
	// ClearAll 删除所有用户的书签与已评价集合，返回删除的 key 数量
	ClearAll(ctx context.Context) (int, error)
}

type LocalStateRepo struct {
	store cache.Store
}

func NewLocalStateRepo(store cache.Store) ILocalStateRepository {
	return &LocalStateRepo{store: store}
}

func (lr *LocalStateRepo) GetSet(ctx context.Context, userId int64, kind Kind) (*IdSet, error) {
	key := Key(userId, kind)
	raw, err := lr.store.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return NewIdSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	set, err := decodeIdSet(raw)
	if err != nil {
		// 内容损坏按空集合处理，下一次写入会覆盖
		log.Warnw("corrupt local state value, treat as empty",
			"key", key,
			"error", err,
		)
		return NewIdSet(), nil
	}
	return set, nil
}

func (lr *LocalStateRepo) SaveSet(ctx context.Context, userId int64, kind Kind, set *IdSet) error {
	key := Key(userId, kind)
	data, err := sonic.MarshalString(set.Items())
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := lr.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (lr *LocalStateRepo) ClearUser(ctx context.Context, userId int64) error {
	keys := make([]string, 0, len(allKinds))
	for _, kind := range allKinds {
		keys = append(keys, Key(userId, kind))
	}
	if err := lr.store.Remove(ctx, keys...); err != nil {
		return fmt.Errorf("clear local state of user %d: %w", userId, err)
	}
	return nil
}

func (lr *LocalStateRepo) ClearAll(ctx context.Context) (int, error) {
	var keys []string
	for _, kind := range allKinds {
		matched, err := lr.store.ListKeys(ctx, keyPattern(kind))
		if err != nil {
			return 0, fmt.Errorf("list %s keys: %w", kind, err)
		}
		keys = append(keys, matched...)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := lr.store.Remove(ctx, keys...); err != nil {
		return 0, fmt.Errorf("remove local state keys: %w", err)
	}
	return len(keys), nil
}

// decodeIdSet 兼容旧客户端写入的数字 id
func decodeIdSet(raw string) (*IdSet, error) {
	var items []any
	if err := sonic.UnmarshalString(raw, &items); err != nil {
		return nil, err
	}
	set := NewIdSet()
	for _, item := range items {
		switch v := item.(type) {
		case string:
			set.Add(v)
		case float64:
			set.Add(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			if s := num.ToString(v); s != "" {
				set.Add(s)
			}
		}
	}
	return set, nil
}
