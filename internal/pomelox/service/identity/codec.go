package identity

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/pomelox/pomelox/pkg/num"
)

/**
 * @file: codec.go
 * @description: 身份二维码编解码
 *               VG_USER_<base64(urlencode(json))>
 *               VG_USER_BACKUP_<id>_<name>_<unix ms>
 */

const (
	TokenPrefix       = "VG_USER_"
	BackupTokenPrefix = TokenPrefix + "BACKUP_"
	InvalidQRCode     = "INVALID_QR_CODE"

	// DefaultMaxPayload JSON 超过该长度时改用精简格式
	DefaultMaxPayload = 1000

	simplifiedVersion = "1.0-simple"
	backupVersion     = "1.0-backup"
)

// ErrInvalidToken 不是合法的身份二维码
var ErrInvalidToken = errors.New("identity: invalid identity token")

// simplifiedPayload 完整 JSON 过长时使用
type simplifiedPayload struct {
	UserId      string `json:"userId"`
	UserName    string `json:"userName"`
	PositionKey string `json:"positionKey"`
	Timestamp   int64  `json:"timestamp"`
	Type        string `json:"type"`
	Version     string `json:"version"`
}

// tokenPayload 解码时兼容完整与精简两种格式
type tokenPayload struct {
	UserId       any             `json:"userId"`
	UserName     string          `json:"userName"`
	LegalName    string          `json:"legalName"`
	NickName     string          `json:"nickName"`
	Email        string          `json:"email"`
	School       *looseRef       `json:"school"`
	Organization *looseRef       `json:"organization"`
	Position     *model.Position `json:"position"`
	PositionKey  string          `json:"positionKey"`
	Type         string          `json:"type"`
	Version      string          `json:"version"`
	GeneratedAt  int64           `json:"generatedAt"`
	Timestamp    int64           `json:"timestamp"`
}

// looseRef 其他客户端生成的二维码中 id 可能是数字
type looseRef struct {
	Id            any    `json:"id"`
	Name          string `json:"name"`
	EngName       string `json:"engName"`
	DisplayNameZh string `json:"displayNameZh"`
	DisplayNameEn string `json:"displayNameEn"`
}

type CodecOption func(*Codec)

// WithMarshal 替换 JSON 序列化函数
func WithMarshal(marshal func(v any) ([]byte, error)) CodecOption {
	return func(c *Codec) {
		if marshal != nil {
			c.marshal = marshal
		}
	}
}

func WithCodecClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMaxPayload(n int) CodecOption {
	return func(c *Codec) {
		if n > 0 {
			c.maxPayload = n
		}
	}
}

type Codec struct {
	marshal    func(v any) ([]byte, error)
	now        func() time.Time
	maxPayload int
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		marshal:    sonic.Marshal,
		now:        time.Now,
		maxPayload: DefaultMaxPayload,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = NewCodec()

// EncodeIdentity encodes with the default codec.
func EncodeIdentity(identity *model.UserIdentity) string {
	return defaultCodec.Encode(identity)
}

// DecodeIdentity decodes with the default codec.
func DecodeIdentity(token string) (*model.UserIdentity, error) {
	return defaultCodec.Decode(token)
}

// Encode 生成二维码内容，序列化失败时退回备用格式，不会返回错误
func (c *Codec) Encode(identity *model.UserIdentity) string {
	if identity == nil {
		return InvalidQRCode
	}

	payload := *identity
	if payload.Type == "" {
		payload.Type = identityType
	}
	if payload.Version == "" {
		payload.Version = identityVersion
	}
	if payload.GeneratedAt == 0 {
		payload.GeneratedAt = c.now().UnixMilli()
	}

	data, err := c.marshal(&payload)
	if err != nil {
		log.Warnw("marshal identity failed, use backup token", "userId", identity.UserId, "error", err)
		return c.backupToken(identity)
	}

	if len(data) > c.maxPayload {
		data, err = c.marshal(&simplifiedPayload{
			UserId:      payload.UserId,
			UserName:    payload.UserName,
			PositionKey: payload.Position.Key,
			Timestamp:   c.now().UnixMilli(),
			Type:        identityType,
			Version:     simplifiedVersion,
		})
		if err != nil {
			log.Warnw("marshal simplified identity failed, use backup token", "userId", identity.UserId, "error", err)
			return c.backupToken(identity)
		}
	}

	return TokenPrefix + base64.StdEncoding.EncodeToString([]byte(escapeComponent(string(data))))
}

func (c *Codec) backupToken(identity *model.UserIdentity) string {
	return fmt.Sprintf("%s%s_%s_%d",
		BackupTokenPrefix,
		escapeBackupField(identity.UserId),
		escapeBackupField(identity.UserName),
		c.now().UnixMilli(),
	)
}

// Decode 解析二维码内容；任何格式问题都返回 ErrInvalidToken
func (c *Codec) Decode(token string) (*model.UserIdentity, error) {
	identity, err := c.decode(strings.TrimSpace(token))
	if err != nil {
		metrics.IdentityDecodeTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	metrics.IdentityDecodeTotal.WithLabelValues("ok").Inc()
	return identity, nil
}

func (c *Codec) decode(token string) (*model.UserIdentity, error) {
	if token == "" || token == InvalidQRCode {
		return nil, ErrInvalidToken
	}
	if strings.HasPrefix(token, BackupTokenPrefix) {
		return decodeBackup(strings.TrimPrefix(token, BackupTokenPrefix))
	}
	if !strings.HasPrefix(token, TokenPrefix) {
		return nil, ErrInvalidToken
	}
	body := strings.TrimPrefix(token, TokenPrefix)
	if body == "" {
		return nil, ErrInvalidToken
	}

	escaped, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrInvalidToken, err)
	}
	text, err := url.QueryUnescape(string(escaped))
	if err != nil {
		return nil, fmt.Errorf("%w: unescape: %v", ErrInvalidToken, err)
	}

	var p tokenPayload
	if err := sonic.UnmarshalString(text, &p); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrInvalidToken, err)
	}
	userId := num.ToString(p.UserId)
	if userId == "" {
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}

	identity := &model.UserIdentity{
		UserId:      userId,
		UserName:    p.UserName,
		LegalName:   p.LegalName,
		NickName:    p.NickName,
		Email:       p.Email,
		Type:        firstNonEmpty(p.Type, identityType),
		Version:     firstNonEmpty(p.Version, identityVersion),
		GeneratedAt: p.GeneratedAt,
	}
	// 等级只由 key 决定，未知 key 视为访客
	positionKey := p.PositionKey
	if p.Position != nil {
		positionKey = p.Position.Key
	}
	level, _ := model.LevelFromKey(positionKey)
	identity.Position = model.PositionOf(level)
	if identity.GeneratedAt == 0 {
		identity.GeneratedAt = p.Timestamp
	}
	if p.School != nil {
		identity.School = &model.School{Id: num.ToString(p.School.Id), Name: p.School.Name, EngName: p.School.EngName}
	}
	if p.Organization != nil {
		identity.Organization = &model.Organization{
			Id:            num.ToString(p.Organization.Id),
			Name:          p.Organization.Name,
			DisplayNameZh: p.Organization.DisplayNameZh,
			DisplayNameEn: p.Organization.DisplayNameEn,
		}
	}
	return identity, nil
}

// decodeBackup <id>_<name>_<unix ms>，各字段内的 "_" 已被转义
func decodeBackup(body string) (*model.UserIdentity, error) {
	parts := strings.Split(body, "_")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: malformed backup token", ErrInvalidToken)
	}
	userId, err := url.QueryUnescape(parts[0])
	if err != nil || strings.TrimSpace(userId) == "" {
		return nil, fmt.Errorf("%w: backup userId", ErrInvalidToken)
	}
	userName, err := url.QueryUnescape(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: backup userName: %v", ErrInvalidToken, err)
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: backup timestamp: %v", ErrInvalidToken, err)
	}
	return &model.UserIdentity{
		UserId:      userId,
		UserName:    userName,
		Position:    model.PositionOf(model.LevelGuest),
		Type:        identityType,
		Version:     backupVersion,
		GeneratedAt: ts,
	}, nil
}

// escapeComponent 与 JS encodeURIComponent 对空格的处理一致
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func escapeBackupField(s string) string {
	return strings.ReplaceAll(escapeComponent(s), "_", "%5F")
}
