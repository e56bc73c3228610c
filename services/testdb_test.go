// services/testdb_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database unique to the calling test. The
// shared-cache name keeps it alive for the lifetime of the connection pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.RecyclingSubmission{},
		&models.PointsTransaction{},
		&models.Reward{},
		&models.RewardRedemption{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedProfile creates a user with the given balance. A non-zero balance gets
// a matching "adjusted" ledger entry so the account starts out reconciled.
func seedProfile(t *testing.T, db *gorm.DB, points int64) string {
	t.Helper()

	userID := uuid.NewString()
	profile := models.Profile{
		ID:          userID,
		Email:       userID[:8] + "@example.com",
		TotalPoints: points,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	if points != 0 {
		entry := models.PointsTransaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			Amount:          points,
			TransactionType: models.TransactionAdjusted,
			Description:     "Seed balance",
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("failed to seed ledger entry: %v", err)
		}
	}

	return userID
}

func seedReward(t *testing.T, db *gorm.DB, cost int64, quantity *int64, active bool) *models.Reward {
	t.Helper()

	reward := models.Reward{
		ID:                uuid.NewString(),
		Title:             "Free Coffee",
		Slug:              "free-coffee",
		Description:       "One free coffee at a partner cafe",
		Category:          "voucher",
		PartnerName:       "Green Cafe",
		PointsCost:        cost,
		AvailableQuantity: quantity,
		IsActive:          active,
	}
	if err := db.Create(&reward).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}
	return &reward
}

func getProfile(t *testing.T, db *gorm.DB, userID string) *models.Profile {
	t.Helper()

	var profile models.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load profile %s: %v", userID, err)
	}
	return &profile
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func int64Ptr(v int64) *int64 { return &v }

func recyclableVerdict() *VerificationResult {
	return &VerificationResult{
		Recyclable:       true,
		ItemType:         "plastic bottle",
		MaterialCategory: "plastic",
		Points:           10,
		CO2SavedKg:       0.5,
		Confidence:       92,
	}
}
