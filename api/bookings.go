package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/sardarhouse/guesthouse/internal/service/booking"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *zap.Logger
}

type paymentDetailsRequest struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type createBookingRequest struct {
	RoomID          int64                  `json:"roomId"`
	CheckIn         string                 `json:"checkIn"`
	CheckOut        string                 `json:"checkOut"`
	Guests          int                    `json:"guests"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone"`
	SpecialRequests string                 `json:"specialRequests"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentDetails  *paymentDetailsRequest `json:"paymentDetails"`
}

type bookingResponse struct {
	ID              string `json:"id"`
	RoomID          int64  `json:"roomId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	PaymentMethod   string `json:"paymentMethod"`
	TotalAmount     string `json:"totalAmount"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

func NewBookingHandler(service booking.BookingUseCase, log *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

// Register wires the guest and admin booking routes onto an
// authenticated group.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/booking", h.create)
	router.PUT("/confirm/:id", AdminOnly(), h.confirm)
	router.GET("/get/booking", AdminOnly(), h.listAll)
	router.GET("/booking/:id/status", h.status)
	router.GET("/user/bookings", h.listMine)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "checkIn must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "checkOut must be a YYYY-MM-DD date"})
		return
	}

	payment, err := parsePaymentMethod(req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		GuestID:         callerGuestID(c),
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
		Payment:         payment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"success":   true,
		"message":   "Booking created successfully",
		"bookingId": result.Booking.ID.String(),
	}
	if result.PaymentURL != "" {
		resp["paymentUrl"] = result.PaymentURL
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	if _, err := h.service.ConfirmBooking(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking confirmed"})
}

func (h *BookingHandler) status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	b, err := h.service.GetBookingForGuest(c.Request.Context(), id, callerGuestID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  string(b.Status),
		"booking": toBookingResponse(b),
	})
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListGuestBookings(c.Request.Context(), callerGuestID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": toBookingResponses(bookings)})
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err) || errors.Is(err, domain.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not authorized to view this booking"})
	default:
		h.log.Error("booking request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parsePaymentMethod(method string, details *paymentDetailsRequest) (domain.PaymentMethod, error) {
	switch domain.PaymentMethodKind(method) {
	case domain.PaymentKindCard:
		if details == nil {
			details = &paymentDetailsRequest{}
		}
		return domain.CardPayment{
			CardNumber: details.CardNumber,
			ExpiryDate: details.ExpiryDate,
			CVV:        details.CVV,
		}, nil
	case domain.PaymentKindRedirect:
		return domain.RedirectPayment{}, nil
	case domain.PaymentKindCash:
		return domain.CashPayment{}, nil
	default:
		return nil, domain.NewValidationError("paymentMethod", "unknown payment method")
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID.String(),
		RoomID:          b.RoomID,
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		Guests:          b.Guests,
		Name:            b.Name,
		Email:           b.Email,
		Phone:           b.Phone,
		SpecialRequests: b.SpecialRequests,
		PaymentMethod:   string(b.Payment.Kind()),
		TotalAmount:     b.TotalAmount.StringFixed(2),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
