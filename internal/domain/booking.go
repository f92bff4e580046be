package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

// Canonical serialization is lowercase everywhere: JSON, database, logs.
const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition can leave the status.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

type Booking struct {
	ID              uuid.UUID
	GuestID         uuid.UUID
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Name            string
	Email           string
	Phone           string
	SpecialRequests string
	Payment         PaymentMethod
	TotalAmount     decimal.Decimal
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
