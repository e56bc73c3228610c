// services/reconciliation.go
package services

import (
	"errors"
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ReconcileResult compares a user's stored balance against the sum of their
// ledger entries. Any mismatch is a correctness bug somewhere in the engines.
type ReconcileResult struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	LedgerSum int64  `json:"ledger_sum"`
	InSync    bool   `json:"in_sync"`
}

// ReconcileUser audits a single account.
func (s *ProfileService) ReconcileUser(userID string) (*ReconcileResult, error) {
	var profile models.Profile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var ledgerSum int64
	if err := s.DB.Model(&models.PointsTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&ledgerSum).Error; err != nil {
		return nil, err
	}

	return &ReconcileResult{
		UserID:    userID,
		Balance:   profile.TotalPoints,
		LedgerSum: ledgerSum,
		InSync:    profile.TotalPoints == ledgerSum,
	}, nil
}

// ReconcileAll audits every account in one query and returns only the
// accounts that drifted.
func (s *ProfileService) ReconcileAll() ([]ReconcileResult, error) {
	var drifted []ReconcileResult
	err := s.DB.Raw(`
		SELECT p.id AS user_id,
		       p.total_points AS balance,
		       COALESCE(SUM(t.amount), 0) AS ledger_sum
		FROM profiles p
		LEFT JOIN points_transactions t ON t.user_id = p.id
		GROUP BY p.id, p.total_points
		HAVING p.total_points <> COALESCE(SUM(t.amount), 0)
	`).Scan(&drifted).Error
	if err != nil {
		return nil, err
	}
	for i := range drifted {
		drifted[i].InSync = false
	}
	return drifted, nil
}

// StartReconciliationScheduler audits the ledger on an interval and logs any
// drift. Detection is the contract here; repair stays a manual operation via
// the admin adjust endpoint.
func (s *ProfileService) StartReconciliationScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			drifted, err := s.ReconcileAll()
			if err != nil {
				log.Printf("[Reconcile] DB error: %v", err)
				return
			}
			if len(drifted) == 0 {
				log.Printf("[Reconcile] ✅ all balances match their ledgers")
				return
			}
			for _, d := range drifted {
				log.Printf("[Reconcile] ❌ drift user=%s balance=%d ledger=%d", d.UserID, d.Balance, d.LedgerSum)
			}
		}),
	)
}
