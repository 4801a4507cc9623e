package stats

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/internal/pomelox/repo/localstate"
	"github.com/pomelox/pomelox/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

type fakeActivityRepo struct {
	resp  *model.ActivityListResp
	err   error
	calls int32
	delay time.Duration
}

func (f *fakeActivityRepo) ListUserActivities(ctx context.Context, _ model.Session, _ int64, _ model.SignStatus) (*model.ActivityListResp, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

// brokenStore 模拟存储不可用
type brokenStore struct{}

var errBroken = errors.New("store unavailable")

func (brokenStore) Get(context.Context, string) (string, error)        { return "", errBroken }
func (brokenStore) Set(context.Context, string, string) error          { return errBroken }
func (brokenStore) Remove(context.Context, ...string) error            { return errBroken }
func (brokenStore) ListKeys(context.Context, string) ([]string, error) { return nil, errBroken }

func typ(t model.ActivityType) *model.ActivityType { return &t }

func newService(t *testing.T, repo *fakeActivityRepo) (*ActivityStatsService, localstate.ILocalStateRepository) {
	t.Helper()
	state := localstate.NewLocalStateRepo(cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 1 << 20}))
	return NewActivityStatsService(repo, state, WithClock(func() time.Time { return fixedNow })), state
}

func okResp(rows ...model.Activity) *model.ActivityListResp {
	return &model.ActivityListResp{Code: 200, Rows: rows, Total: len(rows)}
}

func TestGetUserActivityStats(t *testing.T) {
	ctx := context.Background()
	repo := &fakeActivityRepo{resp: okResp(
		model.Activity{Id: 1, SignStatus: model.SignStatusRegistered, Type: typ(model.ActivityEnded)},
		model.Activity{Id: 2, SignStatus: model.SignStatusCheckedIn, Type: typ(model.ActivityEnded)},
		model.Activity{Id: 3, SignStatus: model.SignStatusCheckedIn, EndTime: "2099-01-01 00:00:00"},
	)}
	svc, state := newService(t, repo)
	require.NoError(t, state.SaveSet(ctx, 42, localstate.KindReviewed, localstate.NewIdSet("2")))
	require.NoError(t, state.SaveSet(ctx, 42, localstate.KindBookmarked, localstate.NewIdSet("7", "8")))

	got := svc.GetUserActivityStats(ctx, model.Session{Token: "tk"}, "42")
	assert.Equal(t, model.UserActivityStats{
		NotParticipated: 1,
		Participated:    2,
		Bookmarked:      2,
		PendingReview:   1,
	}, got)
}

func TestComputeStats_EndedByEndTime(t *testing.T) {
	repo := &fakeActivityRepo{resp: okResp(
		model.Activity{Id: 1, SignStatus: model.SignStatusRegistered, EndTime: "2025-05-31 12:00:00"},
		model.Activity{Id: 2, SignStatus: model.SignStatusRegistered, EndTime: "2025-06-02 12:00:00"},
		model.Activity{Id: 3, SignStatus: model.SignStatusRegistered, EndTime: "not a time"},
		// type 优先于 endTime
		model.Activity{Id: 4, SignStatus: model.SignStatusCheckedIn, EndTime: "2025-05-31 12:00:00", Type: typ(model.ActivityOngoing)},
		model.Activity{Id: 5, SignStatus: model.SignStatusNone, Type: typ(model.ActivityEnded)},
	)}
	svc, _ := newService(t, repo)

	got, err := svc.computeStats(context.Background(), model.Session{}, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NotParticipated)
	assert.Equal(t, 1, got.Participated)
	assert.Equal(t, 1, got.PendingReview)
	assert.Equal(t, 0, got.Bookmarked)
}

func TestComputeStats_RegisteredCheckedInCheckedIn(t *testing.T) {
	repo := &fakeActivityRepo{resp: okResp(
		model.Activity{Id: 1, SignStatus: model.SignStatusRegistered, Type: typ(model.ActivityOngoing)},
		model.Activity{Id: 2, SignStatus: model.SignStatusCheckedIn, Type: typ(model.ActivityEnded)},
		model.Activity{Id: 3, SignStatus: model.SignStatusCheckedIn, Type: typ(model.ActivityOngoing)},
	)}
	svc, _ := newService(t, repo)

	got, err := svc.computeStats(context.Background(), model.Session{}, 1)
	require.NoError(t, err)
	assert.Equal(t, model.UserActivityStats{NotParticipated: 1, Participated: 2, PendingReview: 1}, got)
}

func TestComputeStats_CountsBoundedByNonZeroSignStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.SignStatus
	}{
		{"empty statuses", []model.SignStatus{0, 0, 0}},
		{"mixed", []model.SignStatus{-1, 0, 1, 1, 0}},
		{"unknown values", []model.SignStatus{2, -2, 7, 1}},
		{"all registered", []model.SignStatus{-1, -1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]model.Activity, 0, len(tt.statuses))
			nonZero := 0
			for i, st := range tt.statuses {
				rows = append(rows, model.Activity{Id: int64(i + 1), SignStatus: st, Type: typ(model.ActivityEnded)})
				if st != 0 {
					nonZero++
				}
			}
			svc, _ := newService(t, &fakeActivityRepo{resp: okResp(rows...)})

			got, err := svc.computeStats(context.Background(), model.Session{}, 1)
			require.NoError(t, err)
			assert.LessOrEqual(t, got.NotParticipated+got.Participated, nonZero)
		})
	}
}

func TestComputeStats_PendingReviewGrowsAsActivitiesEnd(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	rows := make([]model.Activity, 0, 5)
	for i := 0; i < 5; i++ {
		status := model.SignStatusRegistered
		if i%2 == 1 {
			status = model.SignStatusCheckedIn
		}
		rows = append(rows, model.Activity{
			Id:         int64(i + 1),
			SignStatus: status,
			EndTime:    base.Add(time.Duration(i+1) * time.Hour).Format("2006-01-02 15:04:05"),
		})
	}
	repo := &fakeActivityRepo{resp: okResp(rows...)}
	state := localstate.NewLocalStateRepo(cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 1 << 20}))
	require.NoError(t, state.SaveSet(ctx, 1, localstate.KindReviewed, localstate.NewIdSet("2", "4")))

	last := -1
	for h := 0; h <= 6; h++ {
		now := base.Add(time.Duration(h)*time.Hour + time.Minute)
		svc := NewActivityStatsService(repo, state, WithClock(func() time.Time { return now }))
		got, err := svc.computeStats(ctx, model.Session{}, 1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.PendingReview, last, "hour %d", h)
		last = got.PendingReview
	}
	assert.Equal(t, 3, last)
}

func TestComputeStats_Errors(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeActivityRepo
		want error
	}{
		{"upstream code", &fakeActivityRepo{resp: &model.ActivityListResp{Code: 500, Msg: "boom"}}, ErrUpstreamCode},
		{"empty rows", &fakeActivityRepo{resp: okResp()}, ErrNoData},
		{"nil response", &fakeActivityRepo{}, ErrNoData},
		{"fetch error", &fakeActivityRepo{err: errors.New("timeout")}, ErrFetch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, tt.repo)
			got, err := svc.computeStats(context.Background(), model.Session{}, 1)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, model.UserActivityStats{}, got)

			// 对外方法统一返回全零
			assert.Equal(t, model.UserActivityStats{}, svc.GetUserActivityStats(context.Background(), model.Session{}, "1"))
		})
	}
}

func TestComputeStats_StoreError(t *testing.T) {
	repo := &fakeActivityRepo{resp: okResp(model.Activity{Id: 1, SignStatus: model.SignStatusRegistered})}
	svc := NewActivityStatsService(repo, localstate.NewLocalStateRepo(brokenStore{}))

	_, err := svc.computeStats(context.Background(), model.Session{}, 1)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, model.UserActivityStats{}, svc.GetUserActivityStats(context.Background(), model.Session{}, "1"))
}

func TestGetUserActivityStats_InvalidUserId(t *testing.T) {
	repo := &fakeActivityRepo{resp: okResp(model.Activity{Id: 1, SignStatus: model.SignStatusRegistered})}
	svc, _ := newService(t, repo)

	for _, id := range []string{"", "abc", "0", "-3", "1.5"} {
		assert.Equal(t, model.UserActivityStats{}, svc.GetUserActivityStats(context.Background(), model.Session{}, id), id)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&repo.calls))

	_, err := svc.computeStats(context.Background(), model.Session{}, 0)
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestGetUserActivityStats_CoalescesConcurrentCalls(t *testing.T) {
	repo := &fakeActivityRepo{
		resp:  okResp(model.Activity{Id: 1, SignStatus: model.SignStatusRegistered}),
		delay: 50 * time.Millisecond,
	}
	svc, _ := newService(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := svc.GetUserActivityStats(context.Background(), model.Session{Token: "tk"}, "5")
			assert.Equal(t, 1, got.NotParticipated)
		}()
	}
	wg.Wait()
	assert.Less(t, atomic.LoadInt32(&repo.calls), int32(8))
}

func TestGetUserActivityStats_CanceledCallerDoesNotCancelOthers(t *testing.T) {
	repo := &fakeActivityRepo{
		resp:  okResp(model.Activity{Id: 1, SignStatus: model.SignStatusRegistered}),
		delay: 100 * time.Millisecond,
	}
	svc, _ := newService(t, repo)
	session := model.Session{Token: "tk"}

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	var gotA, gotB model.UserActivityStats
	wg.Add(2)
	go func() {
		defer wg.Done()
		gotA = svc.GetUserActivityStats(ctxA, session, "5")
	}()
	time.Sleep(5 * time.Millisecond)
	go func() {
		defer wg.Done()
		gotB = svc.GetUserActivityStats(context.Background(), session, "5")
	}()
	time.Sleep(10 * time.Millisecond)
	cancelA()
	wg.Wait()

	assert.Equal(t, model.UserActivityStats{}, gotA)
	assert.Equal(t, 1, gotB.NotParticipated)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.calls))
}

func TestGetUserActivityStats_FetchTimeout(t *testing.T) {
	repo := &fakeActivityRepo{
		resp:  okResp(model.Activity{Id: 1, SignStatus: model.SignStatusRegistered}),
		delay: time.Second,
	}
	state := localstate.NewLocalStateRepo(cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 1 << 20}))
	svc := NewActivityStatsService(repo, state, WithFetchTimeout(20*time.Millisecond))

	got := svc.GetUserActivityStats(context.Background(), model.Session{Token: "tk"}, "5")
	assert.Equal(t, model.UserActivityStats{}, got)
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, &fakeActivityRepo{})

	assert.True(t, svc.ToggleBookmark(ctx, "1", "100"))
	assert.True(t, svc.IsBookmarked(ctx, "1", "100"))
	assert.True(t, svc.ToggleBookmark(ctx, "1", "200"))
	assert.Equal(t, []string{"100", "200"}, svc.GetBookmarkedActivities(ctx, "1"))

	assert.False(t, svc.ToggleBookmark(ctx, "1", "100"))
	assert.False(t, svc.IsBookmarked(ctx, "1", "100"))
	assert.Equal(t, []string{"200"}, svc.GetBookmarkedActivities(ctx, "1"))

	// 其他用户互不影响
	assert.Empty(t, svc.GetBookmarkedActivities(ctx, "2"))
}

func TestToggleBookmark_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, &fakeActivityRepo{})

	assert.False(t, svc.ToggleBookmark(ctx, "x", "100"))
	assert.False(t, svc.ToggleBookmark(ctx, "1", "  "))

	_, err := svc.toggleBookmark(ctx, "x", "100")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = svc.toggleBookmark(ctx, "1", "")
	assert.ErrorIs(t, err, ErrInvalidActivity)

	broken := NewActivityStatsService(&fakeActivityRepo{}, localstate.NewLocalStateRepo(brokenStore{}))
	assert.False(t, broken.ToggleBookmark(ctx, "1", "100"))
	_, err = broken.toggleBookmark(ctx, "1", "100")
	assert.ErrorIs(t, err, ErrStore)
}

func TestMarkAsReviewed(t *testing.T) {
	ctx := context.Background()
	repo := &fakeActivityRepo{resp: okResp(
		model.Activity{Id: 1, SignStatus: model.SignStatusCheckedIn, Type: typ(model.ActivityEnded)},
	)}
	svc, state := newService(t, repo)

	before := svc.GetUserActivityStats(ctx, model.Session{}, "3")
	assert.Equal(t, 1, before.PendingReview)

	svc.MarkAsReviewed(ctx, "3", "1")
	svc.MarkAsReviewed(ctx, "3", "1")
	assert.True(t, svc.IsReviewed(ctx, "3", "1"))

	set, err := state.GetSet(ctx, 3, localstate.KindReviewed)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, set.Items())

	after := svc.GetUserActivityStats(ctx, model.Session{}, "3")
	assert.Equal(t, 0, after.PendingReview)
	assert.Equal(t, 1, after.Participated)
}

func TestClearLocalData(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, &fakeActivityRepo{})

	svc.ToggleBookmark(ctx, "1", "10")
	svc.MarkAsReviewed(ctx, "1", "11")
	svc.ToggleBookmark(ctx, "2", "20")

	svc.ClearUserLocalData(ctx, "1")
	assert.Empty(t, svc.GetBookmarkedActivities(ctx, "1"))
	assert.False(t, svc.IsReviewed(ctx, "1", "11"))
	assert.Equal(t, []string{"20"}, svc.GetBookmarkedActivities(ctx, "2"))

	svc.MarkAsReviewed(ctx, "3", "30")
	assert.Equal(t, 2, svc.ClearAllLocalData(ctx))
	assert.Empty(t, svc.GetBookmarkedActivities(ctx, "2"))
	assert.False(t, svc.IsReviewed(ctx, "3", "30"))
}

func TestClearLocalData_Broken(t *testing.T) {
	svc := NewActivityStatsService(&fakeActivityRepo{}, localstate.NewLocalStateRepo(brokenStore{}))
	assert.NotPanics(t, func() {
		svc.ClearUserLocalData(context.Background(), "1")
		svc.ClearUserLocalData(context.Background(), "bad")
	})
	assert.Equal(t, 0, svc.ClearAllLocalData(context.Background()))
	assert.Empty(t, svc.GetBookmarkedActivities(context.Background(), "1"))
	assert.False(t, svc.IsReviewed(context.Background(), "1", "1"))
}
