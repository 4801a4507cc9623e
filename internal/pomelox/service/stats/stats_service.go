package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/internal/pomelox/repo/activity"
	"github.com/pomelox/pomelox/internal/pomelox/repo/localstate"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/pomelox/pomelox/pkg/num"
	"golang.org/x/sync/singleflight"
)

/**
 * @file: stats_service.go
 * @description: 个人页活动统计，书签与已评价状态
 *               对外方法不返回错误，失败时记录日志并返回安全默认值
 */

type Option func(*ActivityStatsService)

// WithFetchTimeout 合并后的上游请求不随单个调用方取消，只受该超时约束
func WithFetchTimeout(d time.Duration) Option {
	return func(s *ActivityStatsService) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock 替换当前时间来源，用于判断活动是否已结束
func WithClock(now func() time.Time) Option {
	return func(s *ActivityStatsService) {
		if now != nil {
			s.now = now
		}
	}
}

type ActivityStatsService struct {
	activityRepo activity.IActivityRepository
	stateRepo    localstate.ILocalStateRepository
	now          func() time.Time
	fetchTimeout time.Duration
	group        singleflight.Group
}

const defaultFetchTimeout = 30 * time.Second

func NewActivityStatsService(activityRepo activity.IActivityRepository, stateRepo localstate.ILocalStateRepository, opts ...Option) *ActivityStatsService {
	s := &ActivityStatsService{
		activityRepo: activityRepo,
		stateRepo:    stateRepo,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUserActivityStats 计算用户活动统计，任何失败都返回全零统计
// 同一用户同一会话的并发调用只请求一次上游
// 调用方取消只丢弃自己的结果，共享的请求继续执行
func (s *ActivityStatsService) GetUserActivityStats(ctx context.Context, session model.Session, userId string) model.UserActivityStats {
	uid, ok := num.ParsePositiveInt(userId)
	if !ok {
		metrics.StatsRequestsTotal.WithLabelValues(resultLabel(ErrInvalidUserID)).Inc()
		log.Warnw("invalid user id for activity stats", "userId", userId)
		return model.UserActivityStats{}
	}

	key := strconv.FormatInt(uid, 10) + "|" + session.Token
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.computeStats(fetchCtx, session, uid)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	v, err := res.Val, res.Err
	metrics.StatsRequestsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		log.Warnw("compute activity stats failed, return zero stats",
			"userId", uid,
			"error", err,
		)
		return model.UserActivityStats{}
	}
	return v.(model.UserActivityStats)
}

func (s *ActivityStatsService) computeStats(ctx context.Context, session model.Session, userId int64) (model.UserActivityStats, error) {
	var stats model.UserActivityStats
	if userId <= 0 {
		return stats, ErrInvalidUserID
	}

	resp, err := s.activityRepo.ListUserActivities(ctx, session, userId, model.SignStatusRegistered)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if resp == nil {
		return stats, ErrNoData
	}
	if resp.Code != model.ResponseCodeSuccess {
		return stats, fmt.Errorf("%w: code=%d msg=%s", ErrUpstreamCode, resp.Code, resp.Msg)
	}
	if len(resp.Rows) == 0 {
		return stats, ErrNoData
	}

	bookmarked, err := s.stateRepo.GetSet(ctx, userId, localstate.KindBookmarked)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrStore, err)
	}
	reviewed, err := s.stateRepo.GetSet(ctx, userId, localstate.KindReviewed)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrStore, err)
	}

	now := s.now()
	for i := range resp.Rows {
		act := &resp.Rows[i]
		switch act.SignStatus {
		case model.SignStatusRegistered:
			stats.NotParticipated++
		case model.SignStatusCheckedIn:
			stats.Participated++
		default:
			continue
		}
		if act.IsEnded(now) && !reviewed.Has(strconv.FormatInt(act.Id, 10)) {
			stats.PendingReview++
		}
	}
	stats.Bookmarked = bookmarked.Len()

	return stats, nil
}

// ToggleBookmark 切换收藏状态，返回切换后是否已收藏；失败返回 false
func (s *ActivityStatsService) ToggleBookmark(ctx context.Context, userId, activityId string) bool {
	bookmarked, err := s.toggleBookmark(ctx, userId, activityId)
	if err != nil {
		log.Warnw("toggle bookmark failed",
			"userId", userId,
			"activityId", activityId,
			"error", err,
		)
		return false
	}
	return bookmarked
}

// toggleBookmark 读-改-写，同一用户的并发切换可能丢失更新
func (s *ActivityStatsService) toggleBookmark(ctx context.Context, userId, activityId string) (bool, error) {
	uid, aid, err := parseIds(userId, activityId)
	if err != nil {
		return false, err
	}
	set, err := s.stateRepo.GetSet(ctx, uid, localstate.KindBookmarked)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStore, err)
	}

	bookmarked := true
	if !set.Add(aid) {
		set.Remove(aid)
		bookmarked = false
	}
	if err := s.stateRepo.SaveSet(ctx, uid, localstate.KindBookmarked, set); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStore, err)
	}
	metrics.LocalStateWritesTotal.WithLabelValues("toggle_bookmark").Inc()
	return bookmarked, nil
}

// MarkAsReviewed 标记活动已评价，重复调用无副作用
func (s *ActivityStatsService) MarkAsReviewed(ctx context.Context, userId, activityId string) {
	if err := s.markAsReviewed(ctx, userId, activityId); err != nil {
		log.Warnw("mark activity as reviewed failed",
			"userId", userId,
			"activityId", activityId,
			"error", err,
		)
	}
}

func (s *ActivityStatsService) markAsReviewed(ctx context.Context, userId, activityId string) error {
	uid, aid, err := parseIds(userId, activityId)
	if err != nil {
		return err
	}
	set, err := s.stateRepo.GetSet(ctx, uid, localstate.KindReviewed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if !set.Add(aid) {
		return nil
	}
	if err := s.stateRepo.SaveSet(ctx, uid, localstate.KindReviewed, set); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	metrics.LocalStateWritesTotal.WithLabelValues("mark_reviewed").Inc()
	return nil
}

// GetBookmarkedActivities 返回收藏的活动 id，按收藏顺序
func (s *ActivityStatsService) GetBookmarkedActivities(ctx context.Context, userId string) []string {
	set, err := s.getSet(ctx, userId, localstate.KindBookmarked)
	if err != nil {
		log.Warnw("get bookmarked activities failed", "userId", userId, "error", err)
		return []string{}
	}
	return set.Items()
}

func (s *ActivityStatsService) IsBookmarked(ctx context.Context, userId, activityId string) bool {
	return s.contains(ctx, userId, activityId, localstate.KindBookmarked)
}

func (s *ActivityStatsService) IsReviewed(ctx context.Context, userId, activityId string) bool {
	return s.contains(ctx, userId, activityId, localstate.KindReviewed)
}

func (s *ActivityStatsService) contains(ctx context.Context, userId, activityId string, kind localstate.Kind) bool {
	aid := strings.TrimSpace(activityId)
	if aid == "" {
		return false
	}
	set, err := s.getSet(ctx, userId, kind)
	if err != nil {
		log.Warnw("read local state failed", "userId", userId, "kind", kind, "error", err)
		return false
	}
	return set.Has(aid)
}

func (s *ActivityStatsService) getSet(ctx context.Context, userId string, kind localstate.Kind) (*localstate.IdSet, error) {
	uid, ok := num.ParsePositiveInt(userId)
	if !ok {
		return nil, ErrInvalidUserID
	}
	set, err := s.stateRepo.GetSet(ctx, uid, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return set, nil
}

// ClearUserLocalData 删除该用户的收藏与已评价记录
func (s *ActivityStatsService) ClearUserLocalData(ctx context.Context, userId string) {
	uid, ok := num.ParsePositiveInt(userId)
	if !ok {
		log.Warnw("invalid user id for clear local data", "userId", userId)
		return
	}
	if err := s.stateRepo.ClearUser(ctx, uid); err != nil {
		log.Warnw("clear user local data failed", "userId", uid, "error", err)
		return
	}
	metrics.LocalStateWritesTotal.WithLabelValues("clear_user").Inc()
}

// ClearAllLocalData 删除所有用户的收藏与已评价记录，返回删除的 key 数量
func (s *ActivityStatsService) ClearAllLocalData(ctx context.Context) int {
	n, err := s.stateRepo.ClearAll(ctx)
	if err != nil {
		log.Errorw("clear all local data failed", "error", err)
		return 0
	}
	metrics.LocalStateWritesTotal.WithLabelValues("clear_all").Inc()
	log.Infow("all local data cleared", "keys", n)
	return n
}

func parseIds(userId, activityId string) (int64, string, error) {
	uid, ok := num.ParsePositiveInt(userId)
	if !ok {
		return 0, "", ErrInvalidUserID
	}
	aid := strings.TrimSpace(activityId)
	if aid == "" {
		return 0, "", ErrInvalidActivity
	}
	return uid, aid, nil
}
