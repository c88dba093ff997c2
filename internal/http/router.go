package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lojinha.com.br/app/internal/config"
	"lojinha.com.br/app/internal/http/handlers"
	"lojinha.com.br/app/internal/http/middleware"
	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/modules/payments/providers/dummy"
	"lojinha.com.br/app/internal/modules/payments/providers/mercadopago"
)

// NewRouter wires repositories, the provider registry and services, and
// mounts the JSON API.
func NewRouter(logger *slog.Logger, db *gorm.DB, cfg config.Config) *gin.Engine {
	orderRepo := orders.NewGormRepo(db)
	paymentRepo := payments.NewGormRepo(db)

	registry := payments.NewRegistry(
		dummy.New(paymentRepo),
		mercadopago.New(mercadopago.Config{
			AccessToken:   cfg.MPAccessToken,
			WebhookSecret: cfg.MPWebhookSecret,
			BaseURL:       cfg.MPBaseURL,
			Timeout:       cfg.ProviderTimeout,
		}, paymentRepo),
	)

	logger.Info("payment providers registered", "providers", registry.Names())

	orderSvc := orders.NewService(orderRepo, logger)
	paymentSvc := payments.NewService(paymentRepo, orderRepo, registry, logger, cfg.ProviderTimeout)
	webhookSvc := payments.NewWebhookService(paymentRepo, orderRepo, logger)

	ordersH := handlers.NewOrdersHandler(orderSvc)
	paymentsH := handlers.NewPaymentsHandler(logger, paymentSvc)
	webhooksH := handlers.NewWebhookHandler(logger, registry, webhookSvc)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/checkout", ordersH.Checkout)
		api.GET("/orders/:id", ordersH.Detail)

		api.POST("/payments/create", paymentsH.Create)
		api.GET("/payments/:id", paymentsH.Detail)
		api.POST("/payments/webhook/:provider", webhooksH.Handle)
	}

	return r
}
