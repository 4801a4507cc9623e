package identity

import (
	"strings"

	"github.com/pomelox/pomelox/internal/pomelox/model"
)

// legacyLevels 无角色列表时按用户名兜底
var legacyLevels = map[string]model.Level{
	"admin": model.LevelManage,
}

// DeriveLevel 推导权限等级
//  1. 无用户记录为 guest
//  2. admin 标记为 true 直接为 manage
//  3. 按 manage > part_manage > staff > common 取第一个命中的角色
//  4. 无角色时按用户名兜底
//  5. 其余为 common
func DeriveLevel(raw *model.RawUser) model.Level {
	if raw == nil {
		return model.LevelGuest
	}
	if admin, ok := raw.Admin.(bool); ok && admin {
		return model.LevelManage
	}

	if len(raw.Roles) > 0 {
		keys := make(map[string]struct{}, len(raw.Roles))
		for _, role := range raw.Roles {
			keys[strings.ToLower(strings.TrimSpace(role.Key))] = struct{}{}
		}
		for _, key := range model.RoleHierarchy {
			if _, ok := keys[key]; ok {
				level, _ := model.LevelFromKey(key)
				return level
			}
		}
		return model.LevelCommon
	}

	if level, ok := legacyLevels[strings.ToLower(strings.TrimSpace(raw.UserName))]; ok {
		return level
	}
	return model.LevelCommon
}
