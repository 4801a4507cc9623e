package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/pomelox/pomelox/pkg/retry"
)

/**
 * @file: activity_repo.go
 * @description: PomeloX 活动接口客户端
 */

const userActivityListPath = "/app/activity/userActivitylist"

var (
	// ErrUpstreamStatus 上游返回非 2xx HTTP 状态
	ErrUpstreamStatus = errors.New("activity: upstream http status")
	// ErrMalformedResponse 响应体不是合法的活动列表
	ErrMalformedResponse = errors.New("activity: malformed response")
)

type IActivityRepository interface {
	// ListUserActivities 获取用户报名的活动，signStatus 为过滤条件
	ListUserActivities(ctx context.Context, session model.Session, userId int64, signStatus model.SignStatus) (*model.ActivityListResp, error)
}

// RetryConf 上游请求重试配置
type RetryConf struct {
	MaxAttempts int
	Step        time.Duration // 线性退避步长
}

func (c *RetryConf) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Step <= 0 {
		c.Step = 500 * time.Millisecond
	}
}

type ActivityRepo struct {
	client *resty.Client
	retry  RetryConf
}

func NewActivityRepo(client *resty.Client, conf RetryConf) IActivityRepository {
	conf.SetDefaults()
	return &ActivityRepo{
		client: client,
		retry:  conf,
	}
}

// ListUserActivities 失败时按线性退避重试，4xx 与响应解析失败不重试
func (ar *ActivityRepo) ListUserActivities(ctx context.Context, session model.Session, userId int64, signStatus model.SignStatus) (*model.ActivityListResp, error) {
	var result *model.ActivityListResp

	err := retry.Do(ctx, func(ctx context.Context) error {
		resp, err := ar.fetch(ctx, session, userId, signStatus)
		if err != nil {
			return err
		}
		result = resp
		return nil
	},
		retry.WithMaxAttempts(ar.retry.MaxAttempts),
		retry.WithBackoff(retry.Linear(ar.retry.Step)),
		retry.WithOnRetry(func(attempt int, err error) {
			log.Warnw("retry user activity list",
				"userId", userId,
				"attempt", attempt,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ar *ActivityRepo) fetch(ctx context.Context, session model.Session, userId int64, signStatus model.SignStatus) (*model.ActivityListResp, error) {
	req := ar.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"userId":     strconv.FormatInt(userId, 10),
			"signStatus": strconv.Itoa(int(signStatus)),
		})
	if bearer := session.BearerToken(); bearer != "" {
		req.SetHeader("Authorization", bearer)
	}

	resp, err := req.Get(userActivityListPath)
	if err != nil {
		metrics.UpstreamFetchAttemptsTotal.WithLabelValues("transport_error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("request user activity list: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.UpstreamFetchAttemptsTotal.WithLabelValues("http_error").Inc()
		err := fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
		if resp.StatusCode() < 500 {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var list model.ActivityListResp
	if err := sonic.Unmarshal(resp.Body(), &list); err != nil {
		metrics.UpstreamFetchAttemptsTotal.WithLabelValues("decode_error").Inc()
		return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	metrics.UpstreamFetchAttemptsTotal.WithLabelValues("ok").Inc()
	return &list, nil
}
