package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/http/jwt"
	"github.com/pomelox/pomelox/pkg/log"
)

const (
	// TokenKey 原始 bearer token，转发给上游使用
	TokenKey = "token"
	// ClaimsKey 本地校验通过后的 claims，未配置 secret 时为空
	ClaimsKey = "claims"
)

// AuthorizationMiddleware 认证中间件
// secretKey 为空时只要求存在 Bearer token，不做本地签名校验
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := bearerToken(header)
		if !ok {
			c.Status(fiber.StatusUnauthorized)
			if strings.TrimSpace(header) == "" {
				return http.WithRepErrMsg(c, http.TokenBeEmpty, c.Path())
			}
			return http.WithRepErrMsg(c, http.AuthorizationIncorrect, c.Path())
		}

		if secretKey != "" {
			claims, err := jwt.ParseToken(token, secretKey)
			if err != nil {
				c.Status(fiber.StatusUnauthorized)
				if errors.Is(err, goJwt.ErrTokenExpired) {
					return http.WithRepErrMsg(c, http.TokenExpired, c.Path())
				}
				log.Warnw("parse token failed", "path", c.Path(), "error", err)
				return http.WithRepErrMsg(c, http.InvalidToken, c.Path())
			}
			c.Locals(ClaimsKey, claims)
		}

		c.Locals(TokenKey, token)
		return c.Next()
	}
}

// AdminTokenMiddleware 校验运维接口的静态 token，未配置时拒绝所有请求
func AdminTokenMiddleware(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if adminToken == "" || !ok || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.Status(fiber.StatusForbidden)
			return http.WithRepErrMsg(c, http.PermissionDenied, c.Path())
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
