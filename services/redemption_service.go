// recycle-rewards-system/services/redemption_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedemptionService spends points against the reward catalog. Balance and
// inventory are decremented with guarded updates ("... WHERE total_points >=
// cost") inside one transaction, so two racing redemptions can never jointly
// overdraw an account or oversell a reward.
type RedemptionService struct {
	DB *gorm.DB
}

func NewRedemptionService(db *gorm.DB) *RedemptionService {
	return &RedemptionService{DB: db}
}

const codeGenAttempts = 5

// Redeem exchanges points for the given reward. On success exactly one
// redemption (status pending) and one matching ledger entry exist; on any
// failure nothing is written.
func (s *RedemptionService) Redeem(userID, rewardID string) (*models.RewardRedemption, error) {
	if _, err := uuid.Parse(rewardID); err != nil {
		return nil, &ValidationError{Field: "reward_id", Reason: "not a valid UUID"}
	}

	var redemption *models.RewardRedemption
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.Where("id = ?", rewardID).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		if !reward.IsActive {
			return ErrRewardInactive
		}

		var profile models.Profile
		if err := tx.Where("id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		// Friendly pre-checks. The authoritative checks are the guarded
		// updates below; these only produce better error messages.
		if profile.TotalPoints < reward.PointsCost {
			return &InsufficientPointsError{Balance: profile.TotalPoints, Cost: reward.PointsCost}
		}
		if reward.AvailableQuantity != nil && *reward.AvailableQuantity <= 0 {
			return ErrOutOfStock
		}

		// Spend the points only if the stored balance still covers the cost.
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND total_points >= ?", userID, reward.PointsCost).
			Update("total_points", gorm.Expr("total_points - ?", reward.PointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent redemption won the race; report the fresh shortfall.
			var fresh models.Profile
			if err := tx.Where("id = ?", userID).First(&fresh).Error; err != nil {
				return err
			}
			return &InsufficientPointsError{Balance: fresh.TotalPoints, Cost: reward.PointsCost}
		}

		if reward.AvailableQuantity != nil {
			res := tx.Model(&models.Reward{}).
				Where("id = ? AND available_quantity > 0", rewardID).
				Update("available_quantity", gorm.Expr("available_quantity - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock // rolls back the balance decrement
			}
		}

		code, err := s.uniqueRedemptionCode(tx)
		if err != nil {
			return err
		}

		r := models.RewardRedemption{
			ID:             uuid.NewString(),
			UserID:         userID,
			RewardID:       reward.ID,
			PointsSpent:    reward.PointsCost,
			RedemptionCode: code,
			Status:         models.RedemptionPending,
		}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}

		entry := models.PointsTransaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			Amount:          -reward.PointsCost,
			TransactionType: models.TransactionRedeemed,
			Description:     fmt.Sprintf("Redeemed: %s", reward.Title),
			RelatedID:       &r.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		redemption = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 [REDEEM] user=%s reward=%s -%d pts code=%s", userID, rewardID, redemption.PointsSpent, redemption.RedemptionCode)
	return redemption, nil
}

// uniqueRedemptionCode builds ECO-<unix-ms>-<suffix> and re-rolls the random
// suffix if it already exists. Collisions are near-impossible, but a repeat
// must regenerate rather than fail the redemption.
func (s *RedemptionService) uniqueRedemptionCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		code := newRedemptionCode()
		var count int64
		if err := tx.Model(&models.RewardRedemption{}).
			Where("redemption_code = ?", code).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		log.Printf("⚠️ [REDEEM] redemption code collision (%s), regenerating", code)
	}
	return "", ErrCodeCollision
}

func newRedemptionCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("ECO-%d-%s", time.Now().UnixMilli(), suffix)
}

// GetCatalog lists active rewards, cheapest first. When affordableFor is
// non-nil only rewards within that balance are returned; inStockOnly drops
// rewards with a tracked quantity of zero.
func (s *RedemptionService) GetCatalog(affordableFor *int64, inStockOnly bool) ([]models.Reward, error) {
	query := s.DB.Where("is_active = ?", true)

	if affordableFor != nil {
		query = query.Where("points_cost <= ?", *affordableFor)
	}
	if inStockOnly {
		query = query.Where("available_quantity IS NULL OR available_quantity > 0")
	}

	var rewards []models.Reward
	if err := query.Order("points_cost ASC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

// GetReward fetches a single catalog entry.
func (s *RedemptionService) GetReward(rewardID string) (*models.Reward, error) {
	var reward models.Reward
	if err := s.DB.Where("id = ?", rewardID).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return &reward, nil
}

// GetUserRedemptions returns the user's redemptions, newest first.
func (s *RedemptionService) GetUserRedemptions(userID string, page, size int) ([]models.RewardRedemption, int64, error) {
	page, size = clampPage(page, size)

	var total int64
	if err := s.DB.Model(&models.RewardRedemption{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var redemptions []models.RewardRedemption
	if err := s.DB.Where("user_id = ?", userID).
		Preload("Reward").
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}

	return redemptions, total, nil
}
