// services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Business errors returned by the award and redemption engines. Handlers map
// these to HTTP statuses; anything else is treated as a storage failure.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrRewardNotFound  = errors.New("reward not found")
	ErrRewardInactive  = errors.New("reward is not active")
	ErrOutOfStock      = errors.New("reward is out of stock")

	// ErrCodeCollision means redemption code generation kept colliding.
	// The whole redemption was rolled back and is safe to retry as-is.
	ErrCodeCollision = errors.New("could not generate a unique redemption code")
)

// InsufficientPointsError reports a failed balance check together with the
// shortfall, so callers can tell the user how many points they still need.
type InsufficientPointsError struct {
	Balance int64
	Cost    int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need %d more (balance %d, cost %d)",
		e.Cost-e.Balance, e.Balance, e.Cost)
}

func (e *InsufficientPointsError) Shortfall() int64 {
	return e.Cost - e.Balance
}

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
