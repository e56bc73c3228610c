package models

import (
	"time"

	gorm "gorm.io/gorm"
)

// Reward is a catalog item users can redeem points for. The catalog is
// administered externally (admin endpoints + partner sync); the core only
// reads rewards and decrements AvailableQuantity.
type Reward struct {
	ID          string  `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Slug        string  `gorm:"index" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"not null" json:"category"` // voucher, product, activity, donation
	PartnerName string  `gorm:"not null" json:"partner_name"`
	PartnerSKU  *string `gorm:"uniqueIndex" json:"partner_sku,omitempty"` // set for synced partner rewards
	ImageURL    *string `gorm:"type:text" json:"image_url,omitempty"`

	PointsCost int64 `gorm:"not null" json:"points_cost"`
	// nil means unlimited stock; when tracked it must never go below zero.
	AvailableQuantity *int64 `json:"available_quantity"`
	IsActive          bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
