package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pomelox/pomelox/pkg/log"
)

// AuthClaims PomeloX 会话 token 中的声明
// Role / DeptId 由签发方写入，扫码鉴权以它们为准
type AuthClaims struct {
	UserId string `json:"userId"`
	Role   string `json:"role,omitempty"`
	DeptId string `json:"deptId,omitempty"`
	jwt.RegisteredClaims
}

const issuer = "pomelox"

// GenToken 签发 access_token，主要用于测试与本地联调
func GenToken(userId string, secretKey []byte, expire time.Duration) (string, error) {
	return GenRoleToken(userId, "", "", secretKey, expire)
}

// GenRoleToken 签发携带角色与学校的 access_token
func GenRoleToken(userId, role, deptId string, secretKey []byte, expire time.Duration) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserId: userId,
		Role:   role,
		DeptId: deptId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		log.Errorw("jwt.NewWithClaims err", "error", err)
		return "", err
	}
	return token, nil
}

// ParseToken 校验 access_token
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
