package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sardarhouse/guesthouse/api"
	"github.com/sardarhouse/guesthouse/config"
	"github.com/sardarhouse/guesthouse/internal/auth"
	"github.com/sardarhouse/guesthouse/internal/service/booking"
	"go.uber.org/zap"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, jwtSvc *auth.JWTService, log *zap.Logger) error {
	router := newRouter(cfg, bookingSvc, jwtSvc, log)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, bookingSvc booking.BookingUseCase, jwtSvc *auth.JWTService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// The provider webhook and receipt downloads carry no caller
	// identity; everything else requires a bearer token.
	api.NewNotifyHandler(bookingSvc, log).Register(router)
	api.NewReceiptHandler(cfg.Receipts.Dir).Register(router)

	authed := router.Group("/", api.AuthRequired(jwtSvc))
	api.NewBookingHandler(bookingSvc, log).Register(authed)

	return router
}
