package models

import (
	"time"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

// RewardRedemption is one successful reward exchange. Created in "pending";
// later transitions are driven by the external fulfillment flow.
type RewardRedemption struct {
	ID       string `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	RewardID string `gorm:"type:uuid;not null;index" json:"reward_id"`

	PointsSpent    int64            `gorm:"not null" json:"points_spent"`
	RedemptionCode string           `gorm:"not null;uniqueIndex" json:"redemption_code"`
	Status         RedemptionStatus `gorm:"not null;default:'pending'" json:"status"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}
