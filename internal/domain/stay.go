package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Stay is the computed length and price of a reservation window.
type Stay struct {
	Nights int
	Total  decimal.Decimal
}

// ComputeStay computes nights stayed and total price for a check-in /
// check-out pair. Nights round up over whole days, so a partial last
// day still counts as a night. Pure: no I/O, no clock.
func ComputeStay(checkIn, checkOut time.Time, nightlyRate decimal.Decimal) (Stay, error) {
	if !checkOut.After(checkIn) {
		return Stay{}, ErrInvalidDateRange
	}

	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	return Stay{
		Nights: nights,
		Total:  nightlyRate.Mul(decimal.NewFromInt(int64(nights))),
	}, nil
}
