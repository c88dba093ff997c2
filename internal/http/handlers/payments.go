package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lojinha.com.br/app/internal/http/middleware"
	"lojinha.com.br/app/internal/http/validation"
	"lojinha.com.br/app/internal/modules/payments"
	"lojinha.com.br/app/internal/shared/apperr"
)

type PaymentsHandler struct {
	Logger *slog.Logger
	Svc    *payments.Service
}

func NewPaymentsHandler(logger *slog.Logger, svc *payments.Service) *PaymentsHandler {
	return &PaymentsHandler{Logger: logger, Svc: svc}
}

type createPaymentRequest struct {
	OrderID  uint64             `json:"order_id" binding:"required,min=1"`
	Method   string             `json:"method" binding:"required,oneof=pix card"`
	Provider string             `json:"provider"`
	Card     *payments.CardData `json:"card"`
}

// POST /api/v1/payments/create
// 201 with a new payment, 200 with the existing one for the same order.
func (h *PaymentsHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("invalid payment payload", validation.FromBindError(err, &req)))
		return
	}

	res, err := h.Svc.CreateForOrder(c.Request.Context(), payments.CreateInput{
		OrderID:        req.OrderID,
		Method:         req.Method,
		Provider:       req.Provider,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
		Card:           req.Card,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	c.JSON(status, res.Payment)
}

// GET /api/v1/payments/:id
// Projection for client polling of status and pix display data.
func (h *PaymentsHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("invalid payment id", nil))
		return
	}

	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
