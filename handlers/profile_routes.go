// handlers/profile_routes.go
package handlers

import (
	"errors"
	"strconv"

	"recycle-rewards-system/middleware"
	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, authClient *services.AuthServiceClient) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Account summary for the dashboard. A first-time visitor gets their
	// profile row materialized on the spot (signup itself lives on the
	// auth service).
	securedGroup.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		email, _ := c.Locals("user_email").(string)

		summary, err := profileService.GetAccountSummary(userID)
		if errors.Is(err, services.ErrProfileNotFound) {
			if _, createErr := profileService.EnsureProfile(userID, email); createErr != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create profile",
					"cause": createErr.Error(),
				})
			}
			summary, err = profileService.GetAccountSummary(userID)
		}
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(summary)
	})

	securedGroup.Get("/user/points/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		entries, total, err := profileService.GetPointsHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch points history",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"transactions": entries,
			"page":         page,
			"size":         size,
			"total_items":  total,
			"total_pages":  totalPages(total, size),
		})
	})

	// Live ledger stream — authenticated from the query string because
	// EventSource cannot send headers. Lives outside /user/ so the header
	// check on secured paths doesn't apply.
	app.Get("/stream/points", middleware.SSEAuthMiddleware(authClient), profileService.StreamUserPointsSSE)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/points/adjust", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			Amount int64  `json:"amount" validate:"required"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		entry, err := profileService.AdjustPoints(req.UserID, req.Amount, req.Reason)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"message":     "Points adjusted successfully",
			"transaction": entry,
		})
	})

	adminGroup.Get("/reconcile", func(c *fiber.Ctx) error {
		drifted, err := profileService.ReconcileAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "reconciliation failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"drifted_accounts": drifted,
			"in_sync":          len(drifted) == 0,
		})
	})

	adminGroup.Get("/reconcile/:userId", func(c *fiber.Ctx) error {
		result, err := profileService.ReconcileUser(c.Params("userId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(result)
	})
}
