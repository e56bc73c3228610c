// handlers/submission_routes.go
package handlers

import (
	"log"
	"strconv"

	"recycle-rewards-system/middleware"
	"recycle-rewards-system/services"
	"recycle-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupSubmissionRoutes(app *fiber.App, awardService *services.AwardService, verifyClient *services.VerifyServiceClient) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Upload a photo, have the AI service verify it, and award points.
	// The whole award is one transaction; a non-recyclable verdict writes
	// nothing at all.
	securedGroup.Post("/user/submissions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		imageFile, err := c.FormFile("image")
		if err != nil || imageFile.Size == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "an image file is required",
			})
		}

		key := utils.SubmissionImageKey(userID, imageFile.Filename)
		imageURL, err := utils.UploadFileToR2(imageFile, key)
		if err != nil {
			log.Printf("❌ [SUBMIT] image upload failed for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store image, please retry",
			})
		}

		verification, err := verifyClient.VerifyImage(c.Context(), imageURL)
		if err != nil {
			log.Printf("❌ [SUBMIT] verification failed for user %s: %v", userID, err)
			return serviceError(c, err)
		}

		if !verification.Recyclable {
			// Fail fast: no submission, no ledger entry, no balance change.
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":        "this item doesn't appear to be recyclable",
				"verification": verification,
			})
		}

		submission, err := awardService.RecordRecyclingEvent(userID, imageURL, verification)
		if err != nil {
			return serviceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"submission":   submission,
			"verification": verification,
		})
	})

	// Record an award for an image that was uploaded and verified earlier
	// (retry path — idempotent on image_url).
	securedGroup.Post("/user/submissions/record", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ImageURL     string                       `json:"image_url"`
			Verification *services.VerificationResult `json:"verification"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		submission, err := awardService.RecordRecyclingEvent(userID, req.ImageURL, req.Verification)
		if err != nil {
			return serviceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"submission": submission})
	})

	securedGroup.Get("/user/submissions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		submissions, total, err := awardService.GetUserSubmissions(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch submissions",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"submissions": submissions,
			"page":        page,
			"size":        size,
			"total_items": total,
			"total_pages": totalPages(total, size),
		})
	})
}
