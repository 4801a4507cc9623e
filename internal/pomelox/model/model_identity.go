package model

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Level 权限等级，数值越大权限越高
type Level int

const (
	LevelGuest Level = iota
	LevelCommon
	LevelStaff
	LevelPartManage
	LevelManage
)

// 角色 key
const (
	RoleManage     = "manage"
	RolePartManage = "part_manage"
	RoleStaff      = "staff"
	RoleCommon     = "common"
	RoleGuest      = "guest"
)

// RoleHierarchy 角色优先级，从高到低
var RoleHierarchy = []string{RoleManage, RolePartManage, RoleStaff, RoleCommon}

var levelKeys = map[Level]string{
	LevelGuest:      RoleGuest,
	LevelCommon:     RoleCommon,
	LevelStaff:      RoleStaff,
	LevelPartManage: RolePartManage,
	LevelManage:     RoleManage,
}

var levelNames = map[Level][2]string{
	LevelGuest:      {"访客", "Guest"},
	LevelCommon:     {"普通用户", "Member"},
	LevelStaff:      {"内部员工", "Staff"},
	LevelPartManage: {"分管理员", "Partial Admin"},
	LevelManage:     {"总管理员", "Super Admin"},
}

func (l Level) Key() string {
	if k, ok := levelKeys[l]; ok {
		return k
	}
	return RoleGuest
}

func (l Level) String() string {
	return l.Key()
}

// LevelFromKey maps a role key to its level; unknown keys report false.
func LevelFromKey(key string) (Level, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for l, k := range levelKeys {
		if k == key {
			return l, true
		}
	}
	return LevelGuest, false
}

// RawRole 上游用户记录中的角色，可能是字符串或对象
type RawRole struct {
	Key  string `json:"roleKey"`
	Name string `json:"roleName,omitempty"`
}

func (r *RawRole) UnmarshalJSON(data []byte) error {
	var key string
	if err := sonic.Unmarshal(data, &key); err == nil {
		r.Key = key
		return nil
	}
	var obj struct {
		RoleKey  string `json:"roleKey"`
		Key      string `json:"key"`
		RoleName string `json:"roleName"`
	}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Key = obj.RoleKey
	if r.Key == "" {
		r.Key = obj.Key
	}
	r.Name = obj.RoleName
	return nil
}

type RawDept struct {
	DeptId   any    `json:"deptId"`
	DeptName string `json:"deptName"`
	EngName  string `json:"engName"`
}

type RawOrganization struct {
	Id            any    `json:"id"`
	Name          string `json:"name"`
	DisplayNameZh string `json:"displayNameZh"`
	DisplayNameEn string `json:"displayNameEn"`
}

// RawUser 上游返回的用户记录，字段类型不可靠（id 可能是字符串或数字）
type RawUser struct {
	UserId       any              `json:"userId"`
	UserName     string           `json:"userName"`
	LegalName    string           `json:"legalName"`
	NickName     string           `json:"nickName"`
	Email        string           `json:"email"`
	Admin        any              `json:"admin"`
	Roles        []RawRole        `json:"roles"`
	DeptId       any              `json:"deptId"`
	Dept         *RawDept         `json:"dept"`
	Organization *RawOrganization `json:"organization"`
}

type School struct {
	Id      string `json:"id"`
	Name    string `json:"name,omitempty"`
	EngName string `json:"engName,omitempty"`
}

type Organization struct {
	Id            string `json:"id"`
	Name          string `json:"name,omitempty"`
	DisplayNameZh string `json:"displayNameZh,omitempty"`
	DisplayNameEn string `json:"displayNameEn,omitempty"`
}

type Position struct {
	Key           string `json:"key"`
	DisplayName   string `json:"displayName"`
	DisplayNameEn string `json:"displayNameEn,omitempty"`
	Level         Level  `json:"level"`
}

// PositionOf builds the position descriptor of a level.
func PositionOf(l Level) Position {
	names := levelNames[l]
	return Position{
		Key:           l.Key(),
		DisplayName:   names[0],
		DisplayNameEn: names[1],
		Level:         l,
	}
}

// UserIdentity 规范化后的用户身份，二维码携带的就是它
type UserIdentity struct {
	UserId       string        `json:"userId"`
	UserName     string        `json:"userName"`
	LegalName    string        `json:"legalName"`
	NickName     string        `json:"nickName,omitempty"`
	Email        string        `json:"email,omitempty"`
	School       *School       `json:"school,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	Position     Position      `json:"position"`
	Type         string        `json:"type"`
	Version      string        `json:"version"`
	GeneratedAt  int64         `json:"generatedAt,omitempty"` // unix ms
}

// Capabilities 扫码时扫码人可执行的操作
type Capabilities struct {
	VolunteerCheckin bool `json:"volunteerCheckin"`
	ActivityCheckin  bool `json:"activityCheckin"`
}
