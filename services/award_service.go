// recycle-rewards-system/services/award_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AwardService turns verified classification results into durable point
// awards: one submission row, one aggregate bump, one ledger entry — all in
// a single transaction so readers never observe a partial award.
type AwardService struct {
	DB *gorm.DB
}

func NewAwardService(db *gorm.DB) *AwardService {
	return &AwardService{DB: db}
}

// RecordRecyclingEvent persists the award for one verified recyclable item.
// The caller must have already checked the verdict: non-recyclable results
// are rejected here without writes, as a second line of defense.
//
// imageURL is also the idempotency key — each uploaded object can be awarded
// at most once. Re-submitting the same URL returns the original submission.
func (s *AwardService) RecordRecyclingEvent(userID, imageURL string, v *VerificationResult) (*models.RecyclingSubmission, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "missing"}
	}
	if imageURL == "" {
		return nil, &ValidationError{Field: "image_url", Reason: "missing"}
	}
	if v == nil || !v.Recyclable {
		return nil, &ValidationError{Field: "verification", Reason: "item is not recyclable"}
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	category := models.MaterialCategory(v.MaterialCategory)
	if !models.ValidMaterialCategory(category) {
		return nil, &ValidationError{Field: "material_category", Reason: fmt.Sprintf("unknown category %q", v.MaterialCategory)}
	}

	var submission *models.RecyclingSubmission
	var replayed bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Idempotent retry: the same object was already awarded. The URL
		// belongs to whoever recorded it first; another account replaying
		// it is rejected, never handed the original submission.
		var existing models.RecyclingSubmission
		err := tx.Where("image_url = ?", imageURL).First(&existing).Error
		if err == nil {
			if existing.UserID != userID {
				return &ValidationError{Field: "image_url", Reason: "already recorded by another account"}
			}
			submission = &existing
			replayed = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var profile models.Profile
		if err := tx.Where("id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		now := time.Now()
		sub := models.RecyclingSubmission{
			ID:               uuid.NewString(),
			UserID:           userID,
			ImageURL:         imageURL,
			ItemType:         v.ItemType,
			MaterialCategory: category,
			PointsEarned:     v.Points,
			CO2SavedKg:       v.CO2SavedKg,
			AIConfidence:     v.Confidence,
			VerifiedAt:       now,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		// Increment aggregates in the store, never via read-modify-write.
		res := tx.Model(&models.Profile{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":   gorm.Expr("total_points + ?", v.Points),
				"items_recycled": gorm.Expr("items_recycled + 1"),
				"co2_saved_kg":   gorm.Expr("co2_saved_kg + ?", v.CO2SavedKg),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProfileNotFound
		}

		entry := models.PointsTransaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			Amount:          v.Points,
			TransactionType: models.TransactionEarned,
			Description:     fmt.Sprintf("Recycled %s", v.ItemType),
			RelatedID:       &sub.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		submission = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		log.Printf("♻️ [AWARD] user=%s duplicate image, returning original award (no points credited)", userID)
		return submission, nil
	}

	log.Printf("♻️ [AWARD] user=%s +%d pts (%s, %.2fkg CO2)", userID, v.Points, v.ItemType, v.CO2SavedKg)
	return submission, nil
}

// GetUserSubmissions returns the user's submissions, newest first.
func (s *AwardService) GetUserSubmissions(userID string, page, size int) ([]models.RecyclingSubmission, int64, error) {
	page, size = clampPage(page, size)

	var total int64
	if err := s.DB.Model(&models.RecyclingSubmission{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.RecyclingSubmission
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

func clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
