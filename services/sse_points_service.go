package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ledgerCursor tracks what has already been streamed for one user. Timestamps
// are not unique, so the cursor queries with >= and de-dups by ID instead of
// a plain created_at > comparison, which would drop the second of two entries
// sharing a timestamp across a poll boundary.
type ledgerCursor struct {
	lastCreatedAt time.Time
	seen          map[string]bool
}

// newLedgerCursor positions the cursor at the user's newest existing entry,
// so only entries created after the stream opened are delivered.
func newLedgerCursor(db *gorm.DB, userID string) *ledgerCursor {
	cur := &ledgerCursor{seen: make(map[string]bool)}

	var latest []models.PointsTransaction
	if err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&latest).Error; err != nil {
		log.Printf("SSE cursor init error for user %s: %v", userID, err)
		return cur
	}
	if len(latest) == 0 {
		return cur
	}

	cur.lastCreatedAt = latest[0].CreatedAt

	var same []models.PointsTransaction
	if err := db.
		Where("user_id = ? AND created_at = ?", userID, cur.lastCreatedAt).
		Find(&same).Error; err != nil {
		log.Printf("SSE cursor init error for user %s: %v", userID, err)
		return cur
	}
	for _, e := range same {
		cur.seen[e.ID] = true
	}
	return cur
}

// next returns the ledger entries that appeared since the last call, oldest
// first, and advances the cursor past them.
func (cur *ledgerCursor) next(db *gorm.DB, userID string) ([]models.PointsTransaction, error) {
	var entries []models.PointsTransaction
	if err := db.
		Where("user_id = ?", userID).
		Where("created_at >= ?", cur.lastCreatedAt).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	fresh := make([]models.PointsTransaction, 0, len(entries))
	for _, e := range entries {
		if !cur.seen[e.ID] {
			fresh = append(fresh, e)
		}
	}

	newMax := entries[len(entries)-1].CreatedAt
	if newMax.After(cur.lastCreatedAt) {
		cur.lastCreatedAt = newMax
		cur.seen = make(map[string]bool)
	}
	for _, e := range entries {
		if e.CreatedAt.Equal(cur.lastCreatedAt) {
			cur.seen[e.ID] = true
		}
	}

	return fresh, nil
}

// StreamUserPointsSSE streams the user's new ledger entries in real time, so
// the dashboard can show awards and redemptions as they land.
func (s *ProfileService) StreamUserPointsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	db := s.DB

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		cursor := newLedgerCursor(db, userID)

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				entries, err := cursor.next(db, userID)
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}

				if len(entries) == 0 {
					continue
				}

				for _, e := range entries {
					payload, _ := json.Marshal(e)

					fmt.Fprintf(w,
						"event: points\ndata: %s\n\n",
						payload,
					)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
