package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/sardarhouse/guesthouse/internal/service/booking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*booking.CreateBookingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CreateBookingResult), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) HandleGatewayNotification(ctx context.Context, payload url.Values) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockBookingUseCase) GetBookingForGuest(ctx context.Context, id, guestID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListGuestBookings(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newTestRouter(svc booking.BookingUseCase, guestID uuid.UUID, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", func(c *gin.Context) {
		c.Set(ctxGuestID, guestID)
		c.Set(ctxIsAdmin, admin)
	})
	NewBookingHandler(svc, zap.NewNop()).Register(group)
	return router
}

func sampleBooking(id, guestID uuid.UUID, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		GuestID:     guestID,
		RoomID:      7,
		CheckIn:     time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC),
		Guests:      2,
		Name:        "Aisha Khan",
		Email:       "aisha@example.com",
		Phone:       "+27 82 555 1234",
		Payment:     domain.CashPayment{},
		TotalAmount: decimal.NewFromInt(500),
		Status:      status,
		CreatedAt:   time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_Create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	guestID := uuid.New()
	router := newTestRouter(mockService, guestID, false)

	bookingID := uuid.New()
	created := sampleBooking(bookingID, guestID, domain.BookingStatusConfirmed)
	mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.GuestID == guestID && in.RoomID == 7 && in.Payment.Kind() == domain.PaymentKindCash
	})).Return(&booking.CreateBookingResult{Booking: created}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"roomId":        7,
		"checkIn":       "2024-03-20",
		"checkOut":      "2024-03-25",
		"guests":        2,
		"name":          "Aisha Khan",
		"email":         "aisha@example.com",
		"phone":         "+27 82 555 1234",
		"paymentMethod": "cash_on_arrival",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/booking", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, bookingID.String(), resp["bookingId"])
	assert.NotContains(t, resp, "paymentUrl")

	mockService.AssertExpectations(t)
}

func TestBookingHandler_CreateRedirectIncludesPaymentURL(t *testing.T) {
	mockService := &MockBookingUseCase{}
	guestID := uuid.New()
	router := newTestRouter(mockService, guestID, false)

	created := sampleBooking(uuid.New(), guestID, domain.BookingStatusPending)
	created.Payment = domain.RedirectPayment{}
	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&booking.CreateBookingResult{Booking: created, PaymentURL: "https://gateway.example.com/process?signature=abc"}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"roomId":        7,
		"checkIn":       "2024-03-20",
		"checkOut":      "2024-03-25",
		"guests":        2,
		"name":          "Aisha Khan",
		"email":         "aisha@example.com",
		"phone":         "+27 82 555 1234",
		"paymentMethod": "fastpay",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/booking", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://gateway.example.com/process?signature=abc", resp["paymentUrl"])
}

func TestBookingHandler_CreateValidationFailure(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService, uuid.New(), false)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("phone", "must be a valid phone number")).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"roomId":        7,
		"checkIn":       "2024-03-20",
		"checkOut":      "2024-03-25",
		"guests":        2,
		"name":          "Aisha Khan",
		"email":         "aisha@example.com",
		"paymentMethod": "cash_on_arrival",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/booking", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_CreateUnknownPaymentMethod(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService, uuid.New(), false)

	body, _ := json.Marshal(map[string]interface{}{
		"roomId":        7,
		"checkIn":       "2024-03-20",
		"checkOut":      "2024-03-25",
		"guests":        2,
		"paymentMethod": "wire_transfer",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/booking", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_Status(t *testing.T) {
	mockService := &MockBookingUseCase{}
	guestID := uuid.New()
	router := newTestRouter(mockService, guestID, false)

	id := uuid.New()
	mockService.On("GetBookingForGuest", mock.Anything, id, guestID).
		Return(sampleBooking(id, guestID, domain.BookingStatusConfirmed), nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/booking/"+id.String()+"/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp["status"])
}

func TestBookingHandler_StatusForbiddenForNonOwner(t *testing.T) {
	mockService := &MockBookingUseCase{}
	caller := uuid.New()
	router := newTestRouter(mockService, caller, false)

	id := uuid.New()
	mockService.On("GetBookingForGuest", mock.Anything, id, caller).
		Return(nil, domain.ErrNotOwner).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/booking/"+id.String()+"/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandler_Confirm(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService, uuid.New(), true)

	id := uuid.New()
	mockService.On("ConfirmBooking", mock.Anything, id).
		Return(sampleBooking(id, uuid.New(), domain.BookingStatusConfirmed), nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/confirm/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_ConfirmRequiresAdmin(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService, uuid.New(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/confirm/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "ConfirmBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_ConfirmNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService, uuid.New(), true)

	id := uuid.New()
	mockService.On("ConfirmBooking", mock.Anything, id).
		Return(nil, domain.ErrBookingNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/confirm/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifyHandler(t *testing.T) {
	mockService := &MockBookingUseCase{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewNotifyHandler(mockService, zap.NewNop()).Register(router)

	form := url.Values{"m_payment_id": {"GH-" + uuid.NewString()}, "payment_status": {"COMPLETE"}}
	mockService.On("HandleGatewayNotification", mock.Anything, form).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payfast/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	// Provider convention is plain text, not JSON.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestNotifyHandler_Malformed(t *testing.T) {
	mockService := &MockBookingUseCase{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewNotifyHandler(mockService, zap.NewNop()).Register(router)

	mockService.On("HandleGatewayNotification", mock.Anything, mock.Anything).
		Return(domain.ErrMalformedNotification).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payfast/notify", strings.NewReader("payment_status=COMPLETE"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid notification", w.Body.String())
}

func TestReceiptHandler_RejectsTraversal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewReceiptHandler(t.TempDir()).Register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/receipts/secrets.txt", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptHandler_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewReceiptHandler(t.TempDir()).Register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/receipts/booking-nope.pdf", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
