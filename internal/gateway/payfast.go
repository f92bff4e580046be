package gateway

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sardarhouse/guesthouse/config"
	"github.com/sardarhouse/guesthouse/internal/domain"
)

// referencePrefix tags our payment references so the webhook can map
// the provider's m_payment_id back to a booking id.
const referencePrefix = "GH"

// statusComplete is the provider's wire value for a settled payment.
const statusComplete = "COMPLETE"

type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeNotCompleted Outcome = "not-completed"
)

// Notification is the verified content of an inbound provider webhook.
type Notification struct {
	BookingID uuid.UUID
	Reference string
	Outcome   Outcome
}

// PayFast builds signed redirect URLs for the hosted payment page and
// verifies the provider's asynchronous notifications.
type PayFast struct {
	cfg config.GatewayConfig
}

func NewPayFast(cfg config.GatewayConfig) *PayFast {
	return &PayFast{cfg: cfg}
}

// PaymentReference embeds the booking id in the provider-visible
// payment reference.
func PaymentReference(bookingID uuid.UUID) string {
	return referencePrefix + "-" + bookingID.String()
}

// BuildRedirect assembles the canonical signed URL for the provider's
// hosted payment page. The signature covers the lexicographically
// sorted query string; the digest is MD5 because that is what the
// provider validates against.
func (p *PayFast) BuildRedirect(booking *domain.Booking) (string, error) {
	if booking.Payment.Kind() != domain.PaymentKindRedirect {
		return "", fmt.Errorf("payment method %q is not redirect-based", booking.Payment.Kind())
	}

	params := map[string]string{
		"merchant_id":   p.cfg.MerchantID,
		"merchant_key":  p.cfg.MerchantKey,
		"return_url":    p.cfg.ReturnURL,
		"cancel_url":    p.cfg.CancelURL,
		"notify_url":    p.cfg.NotifyURL,
		"name_first":    booking.Name,
		"email_address": booking.Email,
		"m_payment_id":  PaymentReference(booking.ID),
		"amount":        booking.TotalAmount.StringFixed(2),
		"item_name":     fmt.Sprintf("Room %d stay, %s to %s", booking.RoomID, booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02")),
	}

	query := canonicalQuery(params)
	return p.cfg.ProcessURL + "?" + query + "&signature=" + p.sign(query), nil
}

// VerifyNotification parses an inbound webhook payload and maps it to
// a booking id and outcome. A single notification is authoritative;
// replay and race handling belongs to the caller.
func (p *PayFast) VerifyNotification(payload url.Values) (Notification, error) {
	reference := payload.Get("m_payment_id")
	status := payload.Get("payment_status")
	if reference == "" || status == "" {
		return Notification{}, domain.ErrMalformedNotification
	}

	parts := strings.SplitN(reference, "-", 2)
	if len(parts) != 2 || parts[0] != referencePrefix {
		return Notification{}, fmt.Errorf("%w: bad payment reference %q", domain.ErrMalformedNotification, reference)
	}

	bookingID, err := uuid.Parse(parts[1])
	if err != nil {
		return Notification{}, fmt.Errorf("%w: bad payment reference %q", domain.ErrMalformedNotification, reference)
	}

	outcome := OutcomeNotCompleted
	if status == statusComplete {
		outcome = OutcomeCompleted
	}

	return Notification{BookingID: bookingID, Reference: reference, Outcome: outcome}, nil
}

func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&")
}

func (p *PayFast) sign(query string) string {
	if p.cfg.Passphrase != "" {
		query += "&passphrase=" + url.QueryEscape(p.cfg.Passphrase)
	}
	sum := md5.Sum([]byte(query))
	return hex.EncodeToString(sum[:])
}
