package model

// UserActivityStats 个人页活动统计，每次请求实时计算，不落库
type UserActivityStats struct {
	NotParticipated int `json:"notParticipated"`
	Participated    int `json:"participated"`
	Bookmarked      int `json:"bookmarked"`
	PendingReview   int `json:"pendingReview"`
}

// Session 调用上游时使用的会话，替代全局 token
type Session struct {
	Token string
}

// BearerToken returns the Authorization header value, or "" without a token.
func (s Session) BearerToken() string {
	if s.Token == "" {
		return ""
	}
	return "Bearer " + s.Token
}
