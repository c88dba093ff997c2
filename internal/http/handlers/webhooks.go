package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lojinha.com.br/app/internal/http/middleware"
	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/shared/apperr"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Registry   *payments.Registry
	WebhookSvc *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, reg *payments.Registry, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Registry: reg, WebhookSvc: svc}
}

// POST /api/v1/payments/webhook/:provider
//
// Trust comes from the provider signature, not session auth. 4xx is reserved
// for signature/parse failures; everything after a durable audit answers 200
// so the provider stops retrying.
func (h *WebhookHandler) Handle(c *gin.Context) {
	prov, err := h.Registry.Get(c.Param("provider"))
	if err != nil {
		middleware.Fail(c, apperr.NotFoundErr("unknown provider"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("invalid body", nil))
		return
	}

	ev, err := prov.ParseWebhook(c.Request.Header, body)
	if err != nil {
		// Nothing was persisted; reject so a misconfigured sender notices.
		middleware.Fail(c, err)
		return
	}

	if err := h.WebhookSvc.Handle(c.Request.Context(), prov, ev); err != nil {
		// Audit append failed: 500 so the provider retries the delivery.
		h.Logger.Error("webhook processing failed",
			"provider", ev.Provider, "event_id", ev.ProviderEventID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
