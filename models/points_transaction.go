package models

import (
	"time"
)

type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
	TransactionAdjusted TransactionType = "adjusted"
)

// PointsTransaction is the append-only ledger of signed point movements.
// Entries are never updated or deleted; the sum of a user's amounts is the
// source of truth for their balance.
type PointsTransaction struct {
	ID              string          `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount          int64           `gorm:"not null" json:"amount"` // positive = earned, negative = spent
	TransactionType TransactionType `gorm:"not null" json:"transaction_type"`
	Description     string          `gorm:"not null" json:"description"`
	RelatedID       *string         `gorm:"type:uuid" json:"related_id,omitempty"` // submission or redemption ID
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}
