package notify

import (
	"fmt"
	"strings"

	"github.com/sardarhouse/guesthouse/internal/kafka"
	"go.uber.org/zap"
)

// Dispatcher renders the receipt and emails the guest a download link.
// Delivery is best-effort: a booking's confirmed status is already
// committed by the time an event reaches the dispatcher, so failures
// here are logged and swallowed, never propagated back to the store.
type Dispatcher struct {
	receipts  ReceiptGenerator
	mailer    Mailer
	publicURL string
	log       *zap.Logger
}

func NewDispatcher(receipts ReceiptGenerator, mailer Mailer, publicURL string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		receipts:  receipts,
		mailer:    mailer,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

func (d *Dispatcher) NotifyConfirmation(event kafka.ConfirmationEvent) {
	filename, err := d.receipts.Generate(event)
	if err != nil {
		d.log.Error("generate receipt",
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
		return
	}

	downloadURL := fmt.Sprintf("%s/receipts/%s", d.publicURL, filename)
	if err := d.mailer.SendConfirmation(event.Email, event.GuestName, downloadURL); err != nil {
		d.log.Error("send confirmation email",
			zap.String("booking_id", event.BookingID),
			zap.String("to", event.Email),
			zap.Error(err))
		return
	}

	d.log.Info("confirmation sent",
		zap.String("booking_id", event.BookingID),
		zap.String("to", event.Email),
		zap.String("receipt", filename))
}
