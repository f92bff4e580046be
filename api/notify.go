package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/sardarhouse/guesthouse/internal/service/booking"
	"go.uber.org/zap"
)

// NotifyHandler receives the payment provider's asynchronous webhook.
// The provider expects plain-text responses, not JSON.
type NotifyHandler struct {
	service booking.BookingUseCase
	log     *zap.Logger
}

func NewNotifyHandler(service booking.BookingUseCase, log *zap.Logger) *NotifyHandler {
	return &NotifyHandler{service: service, log: log}
}

func (h *NotifyHandler) Register(router *gin.Engine) {
	router.POST("/payfast/notify", h.notify)
}

func (h *NotifyHandler) notify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad payload")
		return
	}

	err := h.service.HandleGatewayNotification(c.Request.Context(), c.Request.PostForm)
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, domain.ErrMalformedNotification):
		c.String(http.StatusBadRequest, "invalid notification")
	case errors.Is(err, domain.ErrBookingNotFound):
		c.String(http.StatusNotFound, "unknown booking")
	default:
		h.log.Error("gateway notification failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "error")
	}
}
