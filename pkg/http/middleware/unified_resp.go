package middleware

import (
	"github.com/gofiber/fiber/v2"
	httpx "github.com/pomelox/pomelox/pkg/http"
)

const (
	// DETAIL handler 通过 c.Locals(DETAIL, value) 设置响应数据
	DETAIL = "detail"
	// OPERATION 无响应数据时标记操作成功
	OPERATION = "operation"
)

// UnifiedResponseMiddleware 统一响应
// handler 未直接写响应时，根据 Locals 包装为 {code, detail, msg}
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status != fiber.StatusOK {
			return nil
		}

		// 业务逻辑正确, 设置响应数据
		if detail := c.Locals(DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		// 业务逻辑正确, 无响应数据, 只返回结果
		if c.Locals(OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
