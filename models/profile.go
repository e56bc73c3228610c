package models

import (
	"time"
)

// Profile is the per-user account aggregate (denormalized for performance).
// The ID is the external user ID issued by the auth service.
type Profile struct {
	ID        string  `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Email     string  `gorm:"not null" json:"email"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	// Aggregates — mutated only by AwardService / RedemptionService.
	// TotalPoints must always equal the sum of the user's points_transactions.
	TotalPoints   int64   `gorm:"not null;default:0" json:"total_points"`
	ItemsRecycled int64   `gorm:"not null;default:0" json:"items_recycled"`
	CO2SavedKg    float64 `gorm:"column:co2_saved_kg;not null;default:0" json:"co2_saved_kg"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
