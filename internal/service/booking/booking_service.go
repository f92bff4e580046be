package booking

import (
	"context"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/sardarhouse/guesthouse/internal/gateway"
	"github.com/sardarhouse/guesthouse/internal/kafka"
	"github.com/sardarhouse/guesthouse/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	HandleGatewayNotification(ctx context.Context, payload url.Values) error
	GetBookingForGuest(ctx context.Context, id, guestID uuid.UUID) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	ListGuestBookings(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error)
}

type Cache interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	SetRoom(ctx context.Context, room *domain.Room) error
	MarkNotificationSeen(ctx context.Context, reference string, ttl time.Duration) (bool, error)
	ClearNotificationSeen(ctx context.Context, reference string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentGateway interface {
	BuildRedirect(booking *domain.Booking) (string, error)
	VerifyNotification(payload url.Values) (gateway.Notification, error)
}

// notificationSeenTTL bounds the redis replay guard; the store's
// compare-and-set still protects transitions after the key expires.
const notificationSeenTTL = 24 * time.Hour

type BookingService struct {
	bookings           repository.BookingRepository
	rooms              repository.RoomRepository
	cache              Cache
	payments           PaymentGateway
	producer           Producer
	confirmationsTopic string
	log                *zap.Logger
}

type CreateBookingInput struct {
	GuestID         uuid.UUID
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Name            string
	Email           string
	Phone           string
	SpecialRequests string
	Payment         domain.PaymentMethod
}

type CreateBookingResult struct {
	Booking *domain.Booking
	// PaymentURL is set only for redirect-based payment methods.
	PaymentURL string
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	cache Cache,
	payments PaymentGateway,
	producer Producer,
	confirmationsTopic string,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:           bookings,
		rooms:              rooms,
		cache:              cache,
		payments:           payments,
		producer:           producer,
		confirmationsTopic: confirmationsTopic,
		log:                log,
	}
}

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern  = regexp.MustCompile(`^\+?[\d\s-]{7,15}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

func validateInput(input CreateBookingInput) error {
	switch {
	case input.GuestID == uuid.Nil:
		return domain.NewValidationError("guest", "caller identity is required")
	case input.RoomID <= 0:
		return domain.NewValidationError("room_id", "required")
	case input.CheckIn.IsZero() || input.CheckOut.IsZero():
		return domain.NewValidationError("dates", "check-in and check-out are required")
	case input.Guests < 1 || input.Guests > 6:
		return domain.NewValidationError("guests", "must be between 1 and 6")
	case input.Name == "":
		return domain.NewValidationError("name", "required")
	case !emailPattern.MatchString(input.Email):
		return domain.NewValidationError("email", "must be a valid email address")
	case !phonePattern.MatchString(input.Phone):
		return domain.NewValidationError("phone", "must be a valid phone number")
	case input.Payment == nil:
		return domain.NewValidationError("payment_method", "required")
	}

	if card, ok := input.Payment.(domain.CardPayment); ok {
		switch {
		case card.CardNumber == "":
			return domain.NewValidationError("card_number", "required")
		case !expiryPattern.MatchString(card.ExpiryDate):
			return domain.NewValidationError("expiry_date", "must be MM/YY")
		case !cvvPattern.MatchString(card.CVV):
			return domain.NewValidationError("cvv", "must be 3 or 4 digits")
		}
	}
	return nil
}

// CreateBooking validates the submission, prices the stay and persists
// the booking. Validation runs before any write, so a failed call
// leaves no partial state behind.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	room, err := s.lookupRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	stay, err := domain.ComputeStay(input.CheckIn, input.CheckOut, room.NightlyRate)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              uuid.New(),
		GuestID:         input.GuestID,
		RoomID:          input.RoomID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		Guests:          input.Guests,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		SpecialRequests: input.SpecialRequests,
		Payment:         input.Payment,
		TotalAmount:     stay.Total,
		Status:          domain.InitialStatus(input.Payment),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	result := &CreateBookingResult{Booking: booking}
	if input.Payment.Kind() == domain.PaymentKindRedirect {
		redirect, err := s.payments.BuildRedirect(booking)
		if err != nil {
			return nil, err
		}
		result.PaymentURL = redirect
	}

	// A cash booking is born confirmed, which counts as its one entry
	// into the confirmed state.
	if booking.Status == domain.BookingStatusConfirmed {
		s.publishConfirmation(ctx, booking)
	}

	return result, nil
}

// ConfirmBooking is the administrative manual-confirm path. Confirming
// an already-terminal booking is a logged no-op and must not re-send
// the guest notification.
func (s *BookingService) ConfirmBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	updated, transitioned, err := s.bookings.TransitionStatus(ctx, id, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		s.log.Info("manual confirm on terminal booking ignored",
			zap.String("booking_id", id.String()),
			zap.String("status", string(updated.Status)))
		return updated, nil
	}

	s.publishConfirmation(ctx, updated)
	return updated, nil
}

// HandleGatewayNotification applies the provider-reported outcome to a
// pending booking. A single notification is authoritative; duplicates
// and races against a manual confirm resolve through the replay guard
// and the store's compare-and-set.
func (s *BookingService) HandleGatewayNotification(ctx context.Context, payload url.Values) error {
	n, err := s.payments.VerifyNotification(payload)
	if err != nil {
		return err
	}

	guarded := false
	if s.cache != nil {
		fresh, err := s.cache.MarkNotificationSeen(ctx, n.Reference, notificationSeenTTL)
		if err != nil {
			s.log.Warn("notification replay guard unavailable", zap.Error(err))
		} else if !fresh {
			s.log.Info("duplicate gateway notification ignored", zap.String("reference", n.Reference))
			return nil
		} else {
			guarded = true
		}
	}

	target := domain.BookingStatusCancelled
	if n.Outcome == gateway.OutcomeCompleted {
		target = domain.BookingStatusConfirmed
	}

	updated, transitioned, err := s.bookings.TransitionStatus(ctx, n.BookingID, target)
	if err != nil {
		// Release the guard so the provider's retry reaches the store;
		// the compare-and-set keeps the retry idempotent.
		if guarded {
			if clearErr := s.cache.ClearNotificationSeen(ctx, n.Reference); clearErr != nil {
				s.log.Warn("replay guard release failed",
					zap.String("reference", n.Reference), zap.Error(clearErr))
			}
		}
		return err
	}
	if !transitioned {
		s.log.Info("gateway notification for terminal booking ignored",
			zap.String("booking_id", n.BookingID.String()),
			zap.String("status", string(updated.Status)))
		return nil
	}

	if target == domain.BookingStatusConfirmed {
		s.publishConfirmation(ctx, updated)
	}
	return nil
}

func (s *BookingService) GetBookingForGuest(ctx context.Context, id, guestID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, domain.ErrNotOwner
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) ListGuestBookings(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	return s.bookings.ListByGuest(ctx, guestID)
}

func (s *BookingService) lookupRoom(ctx context.Context, id int64) (*domain.Room, error) {
	if s.cache != nil {
		room, err := s.cache.GetRoom(ctx, id)
		if err != nil {
			s.log.Warn("room cache read failed", zap.Int64("room_id", id), zap.Error(err))
		} else if room != nil {
			return room, nil
		}
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRoom(ctx, room); err != nil {
			s.log.Warn("room cache write failed", zap.Int64("room_id", id), zap.Error(err))
		}
	}
	return room, nil
}

// publishConfirmation queues the notification after the status write
// has committed. Delivery is the worker's problem; a publish failure
// here must not fail the booking request.
func (s *BookingService) publishConfirmation(ctx context.Context, b *domain.Booking) {
	if s.producer == nil || s.confirmationsTopic == "" {
		return
	}

	event := kafka.ConfirmationEvent{
		BookingID: b.ID.String(),
		RoomID:    b.RoomID,
		GuestName: b.Name,
		Email:     b.Email,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Guests:    b.Guests,
		Total:     b.TotalAmount.StringFixed(2),
	}
	if err := s.producer.Publish(ctx, s.confirmationsTopic, event.BookingID, event); err != nil {
		s.log.Warn("publish confirmation event failed",
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
	}
}

var _ BookingUseCase = (*BookingService)(nil)
