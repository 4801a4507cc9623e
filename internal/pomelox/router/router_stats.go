package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pomelox/pomelox/internal/pomelox/model"
	"github.com/pomelox/pomelox/pkg/http"
	"github.com/pomelox/pomelox/pkg/http/middleware"
)

// statsRouter registers activity stats and local state routes
func (rt *Router) statsRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/users/:userId", auth)
	{
		userGroup.Get("/activity-stats", rt.getActivityStats)              // GET /users/:userId/activity-stats
		userGroup.Get("/bookmarks", rt.getBookmarks)                       // GET /users/:userId/bookmarks
		userGroup.Post("/bookmarks/:activityId/toggle", rt.toggleBookmark) // POST /users/:userId/bookmarks/:activityId/toggle
		userGroup.Post("/reviews/:activityId", rt.markAsReviewed)          // POST /users/:userId/reviews/:activityId
		userGroup.Delete("/local-data", rt.clearUserLocalData)             // DELETE /users/:userId/local-data
	}
}

func (rt *Router) getActivityStats(c *fiber.Ctx) error {
	userId, rep := rt.pathUserId(c)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}

	token, _ := c.Locals(middleware.TokenKey).(string)
	stats := rt.Services.Stats.GetUserActivityStats(c.UserContext(), model.Session{Token: token}, userId)

	c.Locals(middleware.DETAIL, stats)
	return nil
}

func (rt *Router) getBookmarks(c *fiber.Ctx) error {
	userId, rep := rt.pathUserId(c)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}

	c.Locals(middleware.DETAIL, fiber.Map{
		"userId":      userId,
		"activityIds": rt.Services.Stats.GetBookmarkedActivities(c.UserContext(), userId),
	})
	return nil
}

func (rt *Router) toggleBookmark(c *fiber.Ctx) error {
	userId, rep := rt.pathUserId(c)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}
	activityId := strings.TrimSpace(c.Params("activityId"))
	if activityId == "" {
		return http.WithRepErrMsg(c, http.InvalidActivityId, c.Path())
	}

	bookmarked := rt.Services.Stats.ToggleBookmark(c.UserContext(), userId, activityId)

	c.Locals(middleware.DETAIL, fiber.Map{
		"activityId": activityId,
		"bookmarked": bookmarked,
	})
	return nil
}

func (rt *Router) markAsReviewed(c *fiber.Ctx) error {
	userId, rep := rt.pathUserId(c)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}
	activityId := strings.TrimSpace(c.Params("activityId"))
	if activityId == "" {
		return http.WithRepErrMsg(c, http.InvalidActivityId, c.Path())
	}

	rt.Services.Stats.MarkAsReviewed(c.UserContext(), userId, activityId)

	c.Locals(middleware.OPERATION, "mark as reviewed")
	return nil
}

func (rt *Router) clearUserLocalData(c *fiber.Ctx) error {
	userId, rep := rt.pathUserId(c)
	if rep != nil {
		return http.WithRepErrMsg(c, rep, c.Path())
	}

	rt.Services.Stats.ClearUserLocalData(c.UserContext(), userId)

	c.Locals(middleware.OPERATION, "clear user local data")
	return nil
}

func (rt *Router) clearAllLocalData(c *fiber.Ctx) error {
	removed := rt.Services.Stats.ClearAllLocalData(c.UserContext())

	c.Locals(middleware.DETAIL, fiber.Map{"removed": removed})
	return nil
}
