package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/pomelox/pomelox/internal/pomelox/service"
	httpx "github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/http/jwt"
	"github.com/pomelox/pomelox/pkg/http/middleware"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/pomelox/pomelox/pkg/num"
	"github.com/pomelox/pomelox/pkg/pprof"
	"github.com/pomelox/pomelox/pkg/version"
)

/**
 * @file: router.go
 * @description: setup router
 *               /api/v1 业务接口，/health /version /metrics 运维接口
 */

const appName = "pomelox"

type Router struct {
	Http     *httpx.Http
	Services *service.Services
	Metrics  *metrics.Server
}

func NewRouter(httpConf *httpx.Http, services *service.Services, metricsServer *metrics.Server) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Metrics:  metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(rt.Http.FiberConfig(appName))

	// panic recover
	app.Use(middleware.ExceptionMiddleware)

	app.Use(middleware.RequestMiddleware())

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	// unified response
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.ExposeMetrics && rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	if rt.Http.PProf {
		pprof.Register(app.Group(pprof.DefaultPath))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	rt.routerGroup(api)

	// 未匹配的路由
	app.Use(func(c *fiber.Ctx) error {
		c.Status(fiber.StatusNotFound)
		return httpx.WithRepErrMsg(c, httpx.NotFound, c.Path())
	})

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)
	admin := middleware.AdminTokenMiddleware(rt.Http.Auth.AdminToken)

	rt.statsRouter(r, auth)
	rt.identityRouter(r, auth)

	// 全量清理所有用户的本地状态
	r.Delete("/local-data", admin, rt.clearAllLocalData)
}

// pathUserId 解析路径中的 userId，配置了 secret 时只能访问自己的数据
func (rt *Router) pathUserId(c *fiber.Ctx) (string, *httpx.Response) {
	userId := c.Params("userId")
	uid, ok := num.ParsePositiveInt(userId)
	if !ok {
		return "", httpx.InvalidUserId
	}
	if claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims); ok {
		if cid, ok := num.ParsePositiveInt(claims.UserId); !ok || cid != uid {
			return "", httpx.PermissionDenied
		}
	}
	return userId, nil
}
