// services/profile_service_test.go
package services

import (
	"errors"
	"testing"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestEnsureProfileIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := uuid.NewString()

	created, err := svc.EnsureProfile(userID, "eco@example.com")
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if created.TotalPoints != 0 || created.ItemsRecycled != 0 {
		t.Errorf("new profile has non-zero aggregates: %d pts, %d items", created.TotalPoints, created.ItemsRecycled)
	}

	again, err := svc.EnsureProfile(userID, "different@example.com")
	if err != nil {
		t.Fatalf("second EnsureProfile failed: %v", err)
	}
	if again.Email != "eco@example.com" {
		t.Errorf("EnsureProfile overwrote existing email: %q", again.Email)
	}
	if n := countRows(t, db, &models.Profile{}, "id = ?", userID); n != 1 {
		t.Errorf("expected 1 profile row, got %d", n)
	}
}

func TestGetAccountSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	awards := NewAwardService(db)
	redemptions := NewRedemptionService(db)
	userID := seedProfile(t, db, 100)
	reward := seedReward(t, db, 30, nil, true)

	if _, err := awards.RecordRecyclingEvent(userID, "https://x/summary.jpg", recyclableVerdict()); err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if _, err := redemptions.Redeem(userID, reward.ID); err != nil {
		t.Fatalf("redemption failed: %v", err)
	}

	summary, err := svc.GetAccountSummary(userID)
	if err != nil {
		t.Fatalf("GetAccountSummary failed: %v", err)
	}
	if summary.Profile.TotalPoints != 80 {
		t.Errorf("expected balance 80, got %d", summary.Profile.TotalPoints)
	}
	if summary.TotalSubmissions != 1 || summary.TotalRedemptions != 1 {
		t.Errorf("unexpected counts: %d submissions, %d redemptions", summary.TotalSubmissions, summary.TotalRedemptions)
	}

	if _, err := svc.GetAccountSummary(uuid.NewString()); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound for unknown user, got %v", err)
	}
}

func TestAdjustPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedProfile(t, db, 0)

	entry, err := svc.AdjustPoints(userID, 50, "Promo credit")
	if err != nil {
		t.Fatalf("positive adjustment failed: %v", err)
	}
	if entry.TransactionType != models.TransactionAdjusted || entry.Amount != 50 {
		t.Errorf("unexpected ledger entry: type=%s amount=%d", entry.TransactionType, entry.Amount)
	}
	if balance := getProfile(t, db, userID).TotalPoints; balance != 50 {
		t.Errorf("expected balance 50, got %d", balance)
	}

	if _, err := svc.AdjustPoints(userID, -30, "Support correction"); err != nil {
		t.Fatalf("negative adjustment failed: %v", err)
	}
	if balance := getProfile(t, db, userID).TotalPoints; balance != 20 {
		t.Errorf("expected balance 20, got %d", balance)
	}

	result, err := svc.ReconcileUser(userID)
	if err != nil {
		t.Fatalf("ReconcileUser failed: %v", err)
	}
	if !result.InSync {
		t.Errorf("adjustments drifted: balance %d, ledger %d", result.Balance, result.LedgerSum)
	}
}

func TestAdjustPointsGuardsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedProfile(t, db, 20)

	_, err := svc.AdjustPoints(userID, -100, "Chargeback")

	var insufficient *InsufficientPointsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientPointsError, got %v", err)
	}
	if insufficient.Shortfall() != 80 {
		t.Errorf("expected shortfall 80, got %d", insufficient.Shortfall())
	}
	if balance := getProfile(t, db, userID).TotalPoints; balance != 20 {
		t.Errorf("guarded adjustment changed balance to %d", balance)
	}
	if n := countRows(t, db, &models.PointsTransaction{}, "transaction_type = ? AND description = ?", models.TransactionAdjusted, "Chargeback"); n != 0 {
		t.Errorf("rejected adjustment wrote a ledger entry")
	}
}

func TestAdjustPointsRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedProfile(t, db, 0)

	var invalid *ValidationError
	if _, err := svc.AdjustPoints(userID, 0, "noop"); !errors.As(err, &invalid) {
		t.Errorf("expected ValidationError for zero amount, got %v", err)
	}
	if _, err := svc.AdjustPoints(uuid.NewString(), 10, "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetPointsHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedProfile(t, db, 0)

	for i := int64(1); i <= 3; i++ {
		if _, err := svc.AdjustPoints(userID, i*10, "Seed"); err != nil {
			t.Fatalf("adjustment %d failed: %v", i, err)
		}
	}

	entries, total, err := svc.GetPointsHistory(userID, 1, 2)
	if err != nil {
		t.Fatalf("GetPointsHistory failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 entries, got %d", total)
	}
	if len(entries) != 2 {
		t.Errorf("expected page of 2, got %d", len(entries))
	}
}

func TestReconcileDetectsDrift(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	cleanID := seedProfile(t, db, 100)
	driftedID := seedProfile(t, db, 100)

	// Simulate a drifted aggregate: bump the balance without a ledger entry.
	if err := db.Model(&models.Profile{}).
		Where("id = ?", driftedID).
		Update("total_points", gorm.Expr("total_points + ?", 7)).Error; err != nil {
		t.Fatalf("failed to tamper with balance: %v", err)
	}

	clean, err := svc.ReconcileUser(cleanID)
	if err != nil {
		t.Fatalf("ReconcileUser(clean) failed: %v", err)
	}
	if !clean.InSync || clean.Balance != 100 || clean.LedgerSum != 100 {
		t.Errorf("clean account reported drift: %+v", clean)
	}

	drifted, err := svc.ReconcileUser(driftedID)
	if err != nil {
		t.Fatalf("ReconcileUser(drifted) failed: %v", err)
	}
	if drifted.InSync {
		t.Errorf("drifted account reported in sync: %+v", drifted)
	}
	if drifted.Balance != 107 || drifted.LedgerSum != 100 {
		t.Errorf("unexpected drift detail: %+v", drifted)
	}

	all, err := svc.ReconcileAll()
	if err != nil {
		t.Fatalf("ReconcileAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 drifted account, got %d", len(all))
	}
	if all[0].UserID != driftedID || all[0].Balance != 107 || all[0].LedgerSum != 100 || all[0].InSync {
		t.Errorf("unexpected drift report: %+v", all[0])
	}

	if _, err := svc.ReconcileUser(uuid.NewString()); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}
