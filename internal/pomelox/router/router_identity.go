package router

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/internal/pomelox/service/identity"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/http/jwt"
	"github.com/pomelox/pomelox/pkg/http/middleware"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/num"
)

type decodeReq struct {
	Token string `json:"token"`
}

type scanReq struct {
	Scanner json.RawMessage `json:"scanner"`
	Token   string          `json:"token"`
}

// identityRouter registers QR identity routes
func (rt *Router) identityRouter(r fiber.Router, auth fiber.Handler) {
	identityGroup := r.Group("/identity", auth)
	{
		identityGroup.Post("/encode", rt.encodeIdentity) // POST /identity/encode - raw user record -> token
		identityGroup.Post("/decode", rt.decodeIdentity) // POST /identity/decode - token -> identity
		identityGroup.Post("/scan", rt.scanIdentity)     // POST /identity/scan - scanner + token -> capabilities
	}
}

func (rt *Router) encodeIdentity(c *fiber.Ctx) error {
	raw, err := identity.ParseRawUser(c.Body())
	if err != nil {
		return http.WithRepErrMsg(c, http.InvalidUserRecord, c.Path())
	}

	userIdentity := identity.MapUser(raw)
	c.Locals(middleware.DETAIL, fiber.Map{
		"token":    rt.Services.Identity.Encode(userIdentity),
		"identity": userIdentity,
	})
	return nil
}

func (rt *Router) decodeIdentity(c *fiber.Ctx) error {
	var req decodeReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed, c.Path())
	}

	userIdentity, err := rt.Services.Identity.Decode(req.Token)
	if err != nil {
		return http.WithRepErrMsg(c, http.InvalidIdentityToken, c.Path())
	}

	c.Locals(middleware.DETAIL, userIdentity)
	return nil
}

// scannerIdentity 配置了 secret 时扫码人以会话声明为准，body 中的 userId 必须与之一致
func scannerIdentity(c *fiber.Ctx, raw *model.RawUser) (*model.UserIdentity, *http.Response) {
	scanner := identity.MapUser(raw)
	claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims)
	if !ok {
		return scanner, nil
	}
	cid, ok := num.ParsePositiveInt(claims.UserId)
	if !ok {
		return nil, http.PermissionDenied
	}
	if raw != nil {
		if sid, ok := num.ParsePositiveInt(scanner.UserId); !ok || sid != cid {
			return nil, http.PermissionDenied
		}
	}
	return identity.BindScanner(scanner, claims.UserId, claims.Role, claims.DeptId), nil
}

// scanIdentity body: {"scanner": <raw user record>, "token": "VG_USER_..."}
// scanner 缺失或为 null 时按访客处理（配置了 secret 时按会话用户处理）
func (rt *Router) scanIdentity(c *fiber.Ctx) error {
	var req scanReq
	if err := sonic.Unmarshal(c.Body(), &req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed, c.Path())
	}

	scanned, err := rt.Services.Identity.Decode(req.Token)
	if err != nil {
		return http.WithRepErrMsg(c, http.InvalidIdentityToken, c.Path())
	}

	var scannerRaw *model.RawUser
	if len(req.Scanner) > 0 {
		if scannerRaw, err = identity.ParseRawUser(req.Scanner); err != nil {
			return http.WithRepErrMsg(c, http.InvalidUserRecord, c.Path())
		}
	}
	scanner, rep := scannerIdentity(c, scannerRaw)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}
	capabilities := identity.CheckScanPermission(scanner, scanned)

	log.Debugw("identity scanned",
		"scanner", scanner.UserId,
		"scanned", scanned.UserId,
		"level", scanner.Position.Key,
	)

	c.Locals(middleware.DETAIL, fiber.Map{
		"scanned":      scanned,
		"scannerLevel": scanner.Position.Key,
		"capabilities": capabilities,
	})
	return nil
}
