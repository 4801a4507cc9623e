package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/pkg/num"
)

const (
	identityType    = "user_identity"
	identityVersion = "1.0"
)

// ErrInvalidUserRecord 用户记录不是 JSON 对象
var ErrInvalidUserRecord = errors.New("identity: invalid user record")

// ParseRawUser decodes a user record as returned by the PomeloX API. "null"
// yields a nil record, which maps to the guest identity.
func ParseRawUser(data []byte) (*model.RawUser, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrInvalidUserRecord
	}
	if trimmed == "null" {
		return nil, nil
	}
	var raw model.RawUser
	if err := sonic.UnmarshalString(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUserRecord, err)
	}
	return &raw, nil
}

// MapUser 将上游用户记录规范化为 UserIdentity，缺失字段使用零值
func MapUser(raw *model.RawUser) *model.UserIdentity {
	level := DeriveLevel(raw)
	id := &model.UserIdentity{
		Position: model.PositionOf(level),
		Type:     identityType,
		Version:  identityVersion,
	}
	if raw == nil {
		return id
	}

	id.UserId = num.ToString(raw.UserId)
	id.UserName = strings.TrimSpace(raw.UserName)
	id.LegalName = strings.TrimSpace(raw.LegalName)
	id.NickName = strings.TrimSpace(raw.NickName)
	id.Email = strings.TrimSpace(raw.Email)
	if id.LegalName == "" {
		id.LegalName = firstNonEmpty(id.NickName, id.UserName)
	}

	id.School = mapSchool(raw)
	if org := raw.Organization; org != nil {
		id.Organization = &model.Organization{
			Id:            num.ToString(org.Id),
			Name:          org.Name,
			DisplayNameZh: org.DisplayNameZh,
			DisplayNameEn: org.DisplayNameEn,
		}
	}
	return id
}

// mapSchool 学校来自 dept，dept 缺失时退回顶层 deptId
func mapSchool(raw *model.RawUser) *model.School {
	if dept := raw.Dept; dept != nil {
		id := num.ToString(dept.DeptId)
		if id == "" {
			id = num.ToString(raw.DeptId)
		}
		return &model.School{Id: id, Name: dept.DeptName, EngName: dept.EngName}
	}
	if id := num.ToString(raw.DeptId); id != "" {
		return &model.School{Id: id}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
