package domain

import (
	"encoding/json"
	"fmt"
)

type PaymentMethodKind string

const (
	PaymentKindCard     PaymentMethodKind = "credit_card"
	PaymentKindRedirect PaymentMethodKind = "fastpay"
	PaymentKindCash     PaymentMethodKind = "cash_on_arrival"
)

// PaymentMethod is a closed set of payment variants. Each variant
// carries only the fields its method requires, so a cash booking can
// never hold card details.
type PaymentMethod interface {
	Kind() PaymentMethodKind
}

// CardPayment is a card charged on confirmation by the back office.
type CardPayment struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

func (CardPayment) Kind() PaymentMethodKind { return PaymentKindCard }

// RedirectPayment sends the guest to the external processor's hosted
// page; the booking stays pending until the processor's webhook fires.
type RedirectPayment struct{}

func (RedirectPayment) Kind() PaymentMethodKind { return PaymentKindRedirect }

// CashPayment is settled on arrival, so the booking is confirmed at
// creation time.
type CashPayment struct{}

func (CashPayment) Kind() PaymentMethodKind { return PaymentKindCash }

// InitialStatus derives the status a freshly created booking starts in.
func InitialStatus(m PaymentMethod) BookingStatus {
	if m.Kind() == PaymentKindCash {
		return BookingStatusConfirmed
	}
	return BookingStatusPending
}

// EncodePaymentDetails serializes the method-specific fields for storage.
func EncodePaymentDetails(m PaymentMethod) ([]byte, error) {
	return json.Marshal(m)
}

// DecodePaymentMethod rebuilds a variant from its stored kind and details.
func DecodePaymentMethod(kind PaymentMethodKind, details []byte) (PaymentMethod, error) {
	switch kind {
	case PaymentKindCard:
		var m CardPayment
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, err
		}
		return m, nil
	case PaymentKindRedirect:
		return RedirectPayment{}, nil
	case PaymentKindCash:
		return CashPayment{}, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", kind)
	}
}
