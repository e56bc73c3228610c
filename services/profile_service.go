// recycle-rewards-system/services/profile_service.go
package services

import (
	"errors"
	"log"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileService owns the account aggregate reads plus the admin-only
// balance adjustments. All balance-mutating paths append a ledger entry.
type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// EnsureProfile makes sure an account row exists for the user (idempotent).
// Signup happens on the auth service; this is the local materialization.
func (s *ProfileService) EnsureProfile(userID, email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{
			ID:    userID,
			Email: email,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AccountSummary is the dashboard payload: aggregates plus activity counts.
type AccountSummary struct {
	Profile          models.Profile `json:"profile"`
	TotalSubmissions int64          `json:"total_submissions"`
	TotalRedemptions int64          `json:"total_redemptions"`
}

func (s *ProfileService) GetAccountSummary(userID string) (*AccountSummary, error) {
	var profile models.Profile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var submissions, redemptions int64
	if err := s.DB.Model(&models.RecyclingSubmission{}).
		Where("user_id = ?", userID).Count(&submissions).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.RewardRedemption{}).
		Where("user_id = ?", userID).Count(&redemptions).Error; err != nil {
		return nil, err
	}

	return &AccountSummary{
		Profile:          profile,
		TotalSubmissions: submissions,
		TotalRedemptions: redemptions,
	}, nil
}

// GetPointsHistory returns the user's ledger entries, newest first.
func (s *ProfileService) GetPointsHistory(userID string, page, size int) ([]models.PointsTransaction, int64, error) {
	page, size = clampPage(page, size)

	var total int64
	if err := s.DB.Model(&models.PointsTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.PointsTransaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// AdjustPoints applies an admin correction to a user's balance and records
// it in the ledger as "adjusted". Negative amounts are guarded the same way
// redemptions are, so an adjustment can never push a balance below zero.
func (s *ProfileService) AdjustPoints(userID string, amount int64, reason string) (*models.PointsTransaction, error) {
	if amount == 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be non-zero"}
	}
	if reason == "" {
		reason = "Manual balance adjustment"
	}

	var entry *models.PointsTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Profile{}).Where("id = ?", userID)
		if amount < 0 {
			query = query.Where("total_points >= ?", -amount)
		}
		res := query.Update("total_points", gorm.Expr("total_points + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var fresh models.Profile
			if err := tx.Where("id = ?", userID).First(&fresh).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProfileNotFound
				}
				return err
			}
			return &InsufficientPointsError{Balance: fresh.TotalPoints, Cost: -amount}
		}

		e := models.PointsTransaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			Amount:          amount,
			TransactionType: models.TransactionAdjusted,
			Description:     reason,
		}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛠️ [ADJUST] user=%s %+d pts (%s)", userID, amount, reason)
	return entry, nil
}
