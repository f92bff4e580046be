package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/shopspring/decimal"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// TransitionStatus applies a compare-and-set transition from
	// pending to the target status. The bool result reports whether
	// this call won the transition; a booking already in a terminal
	// state is returned unchanged with false, never an error.
	TransitionStatus(ctx context.Context, id uuid.UUID, to domain.BookingStatus) (*domain.Booking, bool, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error)
}

const bookingColumns = `id, guest_id, room_id, check_in, check_out, guests, name, email, phone, special_requests, payment_kind, payment_details, total_amount::text, status, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	details, err := domain.EncodePaymentDetails(booking.Payment)
	if err != nil {
		return fmt.Errorf("encode payment details: %w", err)
	}

	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(id, guest_id, room_id, check_in, check_out, guests, name, email, phone, special_requests, payment_kind, payment_details, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		booking.ID, booking.GuestID, booking.RoomID, booking.CheckIn, booking.CheckOut,
		booking.Guests, booking.Name, booking.Email, booking.Phone, booking.SpecialRequests,
		booking.Payment.Kind(), details, booking.TotalAmount.String(), booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to domain.BookingStatus) (*domain.Booking, bool, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3
		RETURNING `+bookingColumns, id, to, domain.BookingStatusPending)
	b, err := scanBooking(row)
	if err == nil {
		return b, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Lost the compare-and-set: the booking is already terminal (or
	// missing). Report the state the winner left behind.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_id=$1 ORDER BY created_at DESC`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b       domain.Booking
		kind    string
		details []byte
		total   string
	)
	if err := row.Scan(&b.ID, &b.GuestID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.Name, &b.Email, &b.Phone, &b.SpecialRequests, &kind, &details, &total,
		&b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	payment, err := domain.DecodePaymentMethod(domain.PaymentMethodKind(kind), details)
	if err != nil {
		return nil, fmt.Errorf("decode payment method: %w", err)
	}
	b.Payment = payment

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total amount: %w", err)
	}
	b.TotalAmount = amount

	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
