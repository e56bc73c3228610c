// handlers/reward_routes.go
package handlers

import (
	"strconv"

	"recycle-rewards-system/middleware"
	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, redemptionService *services.RedemptionService, profileService *services.ProfileService, catalogAdmin *services.CatalogAdminService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Marketplace catalog: active rewards, cheapest first. With
	// ?affordable=true only rewards the user can pay for are returned;
	// ?in_stock=true hides sold-out rewards.
	securedGroup.Get("/rewards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var affordableFor *int64
		if c.Query("affordable") == "true" && userID != "" {
			summary, err := profileService.GetAccountSummary(userID)
			if err != nil {
				return serviceError(c, err)
			}
			affordableFor = &summary.Profile.TotalPoints
		}
		inStockOnly := c.Query("in_stock") == "true"

		rewards, err := redemptionService.GetCatalog(affordableFor, inStockOnly)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch rewards",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"rewards": rewards})
	})

	securedGroup.Get("/rewards/:id", func(c *fiber.Ctx) error {
		reward, err := redemptionService.GetReward(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(reward)
	})

	// Spend points on a reward. Exactly one redemption and one ledger
	// entry on success; a rejection writes nothing.
	securedGroup.Post("/user/rewards/:id/redeem", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		redemption, err := redemptionService.Redeem(userID, c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":         "Reward redeemed successfully",
			"redemption":      redemption,
			"redemption_code": redemption.RedemptionCode,
		})
	})

	securedGroup.Get("/user/redemptions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		redemptions, total, err := redemptionService.GetUserRedemptions(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch redemptions",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"redemptions": redemptions,
			"page":        page,
			"size":        size,
			"total_items": total,
			"total_pages": totalPages(total, size),
		})
	})

	// Catalog administration — external to the ledger core.
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/rewards", catalogAdmin.GetAllRewards)
	adminGroup.Post("/rewards", catalogAdmin.CreateReward)
	adminGroup.Put("/rewards/:id", catalogAdmin.UpdateReward)
	adminGroup.Post("/rewards/:id/deactivate", catalogAdmin.DeactivateReward)
	adminGroup.Delete("/rewards/:id", catalogAdmin.DeleteReward)
}
