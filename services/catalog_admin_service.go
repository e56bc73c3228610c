// services/catalog_admin_service.go
package services

import (
	"errors"
	"log"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CatalogAdminService is the catalog administration surface. The ledger core
// never writes rewards except the inventory decrement; everything else in
// the catalog lifecycle goes through these admin handlers or the partner
// sync worker.
type CatalogAdminService struct {
	DB *gorm.DB
}

func NewCatalogAdminService(db *gorm.DB) *CatalogAdminService {
	return &CatalogAdminService{DB: db}
}

// CreateReward creates a new catalog reward (Admin only)
func (s *CatalogAdminService) CreateReward(c *fiber.Ctx) error {
	var req struct {
		Title             string  `json:"title" validate:"required"`
		Description       string  `json:"description"`
		Category          string  `json:"category" validate:"required,oneof=voucher product activity donation"`
		PartnerName       string  `json:"partner_name" validate:"required"`
		ImageURL          *string `json:"image_url"`
		PointsCost        int64   `json:"points_cost" validate:"required,min=1"`
		AvailableQuantity *int64  `json:"available_quantity"`
		IsActive          *bool   `json:"is_active"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.PartnerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and partner name are required"})
	}
	if req.PointsCost <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points cost must be a positive integer"})
	}
	if req.AvailableQuantity != nil && *req.AvailableQuantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Available quantity cannot be negative"})
	}

	reward := &models.Reward{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Slug:              slug.Make(req.Title),
		Description:       req.Description,
		Category:          req.Category,
		PartnerName:       req.PartnerName,
		ImageURL:          req.ImageURL,
		PointsCost:        req.PointsCost,
		AvailableQuantity: req.AvailableQuantity,
		IsActive:          true,
	}
	if req.IsActive != nil {
		reward.IsActive = *req.IsActive
	}

	if err := s.DB.Create(reward).Error; err != nil {
		log.Printf("DB Error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reward"})
	}

	return c.Status(fiber.StatusCreated).JSON(reward)
}

// UpdateReward updates an existing reward (Admin only)
func (s *CatalogAdminService) UpdateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	var existingReward models.Reward
	if err := s.DB.First(&existingReward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Title             *string `json:"title"`
		Description       *string `json:"description"`
		Category          *string `json:"category"`
		PartnerName       *string `json:"partner_name"`
		ImageURL          *string `json:"image_url"`
		PointsCost        *int64  `json:"points_cost"`
		AvailableQuantity *int64  `json:"available_quantity"`
		IsActive          *bool   `json:"is_active"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != nil {
		existingReward.Title = *req.Title
		existingReward.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		existingReward.Description = *req.Description
	}
	if req.Category != nil {
		existingReward.Category = *req.Category
	}
	if req.PartnerName != nil {
		existingReward.PartnerName = *req.PartnerName
	}
	if req.ImageURL != nil {
		existingReward.ImageURL = req.ImageURL
	}
	if req.PointsCost != nil {
		if *req.PointsCost <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points cost must be a positive integer"})
		}
		existingReward.PointsCost = *req.PointsCost
	}
	if req.AvailableQuantity != nil {
		if *req.AvailableQuantity < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Available quantity cannot be negative"})
		}
		existingReward.AvailableQuantity = req.AvailableQuantity
	}
	if req.IsActive != nil {
		existingReward.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&existingReward).Error; err != nil {
		log.Printf("DB Error updating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward"})
	}

	return c.JSON(existingReward)
}

// DeactivateReward pulls a reward from the marketplace without touching the
// redemptions that already reference it (Admin only)
func (s *CatalogAdminService) DeactivateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	res := s.DB.Model(&models.Reward{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("DB Error deactivating reward: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate reward"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
	}

	return c.JSON(fiber.Map{"message": "Reward deactivated successfully"})
}

// DeleteReward soft-deletes a reward (Admin only)
func (s *CatalogAdminService) DeleteReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&reward).Error; err != nil {
		log.Printf("DB Error deleting reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete reward"})
	}

	return c.JSON(fiber.Map{"message": "Reward deleted successfully"})
}

// GetAllRewards fetches the whole catalog including inactive entries (Admin only)
func (s *CatalogAdminService) GetAllRewards(c *fiber.Ctx) error {
	var rewards []models.Reward
	if err := s.DB.Order("created_at DESC").Find(&rewards).Error; err != nil {
		log.Printf("DB Error fetching all rewards: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch rewards"})
	}

	return c.JSON(rewards)
}
