package identity

import (
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/pkg/num"
)

// SameSchool 两边都能解析为整数且相等才算同校
func SameSchool(a, b any) bool {
	x, ok := num.ToInt64(a)
	if !ok {
		return false
	}
	y, ok := num.ToInt64(b)
	if !ok {
		return false
	}
	return x == y
}

// Capabilities 扫码人按等级可执行的操作
// part_manage 只能给本校用户做志愿者签到
func Capabilities(level model.Level, sameSchool bool) model.Capabilities {
	switch level {
	case model.LevelManage:
		return model.Capabilities{VolunteerCheckin: true, ActivityCheckin: true}
	case model.LevelPartManage:
		return model.Capabilities{VolunteerCheckin: sameSchool, ActivityCheckin: true}
	default:
		return model.Capabilities{VolunteerCheckin: false, ActivityCheckin: true}
	}
}

// BindScanner pins the scanner to a verified session: id, level and school
// come from the session, the rest of the record is kept for display.
// An empty or unknown role counts as common; an empty deptId means no school.
func BindScanner(scanner *model.UserIdentity, userId, roleKey, deptId string) *model.UserIdentity {
	bound := &model.UserIdentity{}
	if scanner != nil {
		*bound = *scanner
	}
	bound.UserId = userId

	level, ok := model.LevelFromKey(roleKey)
	if !ok || level == model.LevelGuest {
		level = model.LevelCommon
	}
	bound.Position = model.PositionOf(level)

	bound.School = nil
	if deptId != "" {
		bound.School = &model.School{Id: deptId}
		if scanner != nil && scanner.School != nil && SameSchool(scanner.School.Id, deptId) {
			bound.School.Name = scanner.School.Name
			bound.School.EngName = scanner.School.EngName
		}
	}
	return bound
}

// CheckScanPermission computes what scanner may do to scanned.
func CheckScanPermission(scanner, scanned *model.UserIdentity) model.Capabilities {
	level := model.LevelGuest
	if scanner != nil {
		level = scanner.Position.Level
	}
	return Capabilities(level, sameSchoolOf(scanner, scanned))
}

func sameSchoolOf(a, b *model.UserIdentity) bool {
	if a == nil || b == nil || a.School == nil || b.School == nil {
		return false
	}
	return SameSchool(a.School.Id, b.School.Id)
}
