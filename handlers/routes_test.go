// handlers/routes_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recycle-rewards-system/models"
	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	app := fiber.New()
	awardService := services.NewAwardService(db)
	redemptionService := services.NewRedemptionService(db)
	profileService := services.NewProfileService(db)
	catalogAdmin := services.NewCatalogAdminService(db)
	verifyClient := services.NewVerifyServiceClient("http://verify.invalid", "test-token")
	authClient := services.NewAuthServiceClient("http://auth.invalid", "test-token")

	SetupSubmissionRoutes(app, awardService, verifyClient)
	SetupRewardRoutes(app, redemptionService, profileService, catalogAdmin)
	SetupProfileRoutes(app, profileService, authClient)

	return app, db
}

func seedProfile(t *testing.T, db *gorm.DB, points int64) string {
	t.Helper()

	userID := uuid.NewString()
	profile := models.Profile{ID: userID, Email: userID[:8] + "@example.com", TotalPoints: points}
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

func seedReward(t *testing.T, db *gorm.DB, cost int64, quantity *int64) *models.Reward {
	t.Helper()

	reward := models.Reward{
		ID:                uuid.NewString(),
		Title:             "Free Coffee",
		Slug:              "free-coffee",
		Category:          "voucher",
		PartnerName:       "Green Cafe",
		PointsCost:        cost,
		AvailableQuantity: quantity,
		IsActive:          true,
	}
	if err := db.Create(&reward).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}
	return &reward
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID string, roles string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if roles != "" {
		req.Header.Set("X-User-Roles", roles)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s returned invalid JSON: %v (%s)", method, path, err, raw)
		}
	}
	return resp, decoded
}
