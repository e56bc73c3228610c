// handlers/errors.go
package handlers

import (
	"errors"

	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps engine errors onto HTTP responses. Unrecognized errors
// are storage failures: the caller may retry, nothing partial was written.
func serviceError(c *fiber.Ctx, err error) error {
	var insufficient *services.InsufficientPointsError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "not enough points to redeem this reward",
			"shortfall": insufficient.Shortfall(),
			"balance":   insufficient.Balance,
			"cost":      insufficient.Cost,
		})
	}

	var invalid *services.ValidationError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalid.Error(),
		})
	}

	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	case errors.Is(err, services.ErrRewardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
	case errors.Is(err, services.ErrRewardInactive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reward is not available"})
	case errors.Is(err, services.ErrOutOfStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reward is out of stock"})
	case errors.Is(err, services.ErrCodeCollision):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "please retry the redemption"})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "storage failure, please retry",
		"cause": err.Error(),
	})
}

func totalPages(totalItems int64, size int) int {
	return int((totalItems + int64(size) - 1) / int64(size))
}
