// workers/workers_test.go
package workers

import (
	"fmt"
	"strings"
	"testing"

	"recycle-rewards-system/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Profile{}, &models.Reward{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
