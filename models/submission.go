package models

import (
	"time"
)

// MaterialCategory is the set of materials the verify service can report.
type MaterialCategory string

const (
	MaterialPlastic   MaterialCategory = "plastic"
	MaterialGlass     MaterialCategory = "glass"
	MaterialPaper     MaterialCategory = "paper"
	MaterialCardboard MaterialCategory = "cardboard"
	MaterialMetal     MaterialCategory = "metal"
	MaterialAluminum  MaterialCategory = "aluminum"
)

// ValidMaterialCategory reports whether c is one of the known categories.
func ValidMaterialCategory(c MaterialCategory) bool {
	switch c {
	case MaterialPlastic, MaterialGlass, MaterialPaper, MaterialCardboard, MaterialMetal, MaterialAluminum:
		return true
	}
	return false
}

// RecyclingSubmission records one verified recyclable item. Rows are
// immutable after creation; each one has exactly one matching "earned"
// points transaction.
type RecyclingSubmission struct {
	ID     string `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	// ImageURL doubles as the idempotency key: one submission per uploaded object.
	ImageURL         string           `gorm:"type:text;not null;uniqueIndex" json:"image_url"`
	ItemType         string           `gorm:"not null" json:"item_type"`
	MaterialCategory MaterialCategory `gorm:"not null" json:"material_category"`
	PointsEarned     int64            `gorm:"not null" json:"points_earned"`
	CO2SavedKg       float64          `gorm:"column:co2_saved_kg;not null" json:"co2_saved_kg"`
	AIConfidence     int              `json:"ai_confidence"`

	VerifiedAt time.Time `gorm:"not null" json:"verified_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
