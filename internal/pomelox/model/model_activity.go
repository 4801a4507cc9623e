package model

import (
	"strings"
	"time"
)

// SignStatus 用户与活动的报名/签到状态，仅对 (user, activity) 有意义
type SignStatus int

const (
	SignStatusNone       SignStatus = 0  // 未报名
	SignStatusRegistered SignStatus = -1 // 已报名未签到
	SignStatusCheckedIn  SignStatus = 1  // 已签到
)

// ActivityType 活动时间状态
type ActivityType int

const (
	ActivityUpcoming ActivityType = -1
	ActivityOngoing  ActivityType = 1
	ActivityEnded    ActivityType = 2
)

// ResponseCodeSuccess PomeloX API 成功码
const ResponseCodeSuccess = 200

// activityTimeLayouts 上游返回的时间格式，按顺序尝试
var activityTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	time.RFC3339,
}

type Activity struct {
	Id         int64         `json:"id"`
	Name       string        `json:"name"`
	Address    string        `json:"address,omitempty"`
	StartTime  string        `json:"startTime,omitempty"`
	EndTime    string        `json:"endTime,omitempty"`
	SignStatus SignStatus    `json:"signStatus"`
	Type       *ActivityType `json:"type,omitempty"`
}

// IsEnded 优先使用 type 字段，缺失时比较 endTime 与 now；endTime 无法解析视为未结束
func (a *Activity) IsEnded(now time.Time) bool {
	if a.Type != nil {
		return *a.Type == ActivityEnded
	}
	end, ok := ParseActivityTime(a.EndTime, now.Location())
	if !ok {
		return false
	}
	return end.Before(now)
}

// ParseActivityTime parses an upstream time string in loc.
func ParseActivityTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range activityTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ActivityListResp PomeloX 活动列表响应
type ActivityListResp struct {
	Code  int        `json:"code"`
	Msg   string     `json:"msg,omitempty"`
	Total int        `json:"total,omitempty"`
	Rows  []Activity `json:"rows"`
}
