package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/sardarhouse/guesthouse/internal/kafka"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockReceiptGenerator struct {
	mock.Mock
}

func (m *MockReceiptGenerator) Generate(event kafka.ConfirmationEvent) (string, error) {
	args := m.Called(event)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmation(toEmail, guestName, downloadURL string) error {
	args := m.Called(toEmail, guestName, downloadURL)
	return args.Error(0)
}

func testEvent() kafka.ConfirmationEvent {
	return kafka.ConfirmationEvent{
		BookingID: "3f6f3f0e-9a34-4d0f-8c4b-2f8f6f1b2e01",
		RoomID:    7,
		GuestName: "Aisha Khan",
		Email:     "aisha@example.com",
		CheckIn:   time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC),
		Guests:    2,
	}
}

func TestDispatcher_NotifyConfirmation(t *testing.T) {
	receipts := &MockReceiptGenerator{}
	mailer := &MockMailer{}
	d := NewDispatcher(receipts, mailer, "https://guesthouse.example.com/", zap.NewNop())

	event := testEvent()
	receipts.On("Generate", event).Return("booking-3f6f3f0e.pdf", nil).Once()
	mailer.On("SendConfirmation", event.Email, event.GuestName,
		"https://guesthouse.example.com/receipts/booking-3f6f3f0e.pdf").Return(nil).Once()

	d.NotifyConfirmation(event)

	receipts.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestDispatcher_ReceiptFailureSkipsEmail(t *testing.T) {
	receipts := &MockReceiptGenerator{}
	mailer := &MockMailer{}
	d := NewDispatcher(receipts, mailer, "https://guesthouse.example.com", zap.NewNop())

	event := testEvent()
	receipts.On("Generate", event).Return("", errors.New("disk full")).Once()

	// Must not panic or attempt delivery; the failure stays in the logs.
	d.NotifyConfirmation(event)

	receipts.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_MailFailureIsSwallowed(t *testing.T) {
	receipts := &MockReceiptGenerator{}
	mailer := &MockMailer{}
	d := NewDispatcher(receipts, mailer, "https://guesthouse.example.com", zap.NewNop())

	event := testEvent()
	receipts.On("Generate", event).Return("booking-x.pdf", nil).Once()
	mailer.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable")).Once()

	d.NotifyConfirmation(event)

	receipts.AssertExpectations(t)
	mailer.AssertExpectations(t)
}
