package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room is consumed read-only by the booking flow: only the nightly
// rate and capacity matter for computing totals.
type Room struct {
	ID          int64
	Number      int
	Type        string
	NightlyRate decimal.Decimal
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
