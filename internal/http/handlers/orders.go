package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lojinha.com.br/app/internal/http/middleware"
	"lojinha.com.br/app/internal/http/validation"
	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/shared/apperr"
)

type OrdersHandler struct {
	Svc *orders.Service
}

func NewOrdersHandler(svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{Svc: svc}
}

type checkoutItemRequest struct {
	ProductID uint64 `json:"product_id" binding:"required,min=1"`
	Name      string `json:"name" binding:"required,max=220"`
	Price     string `json:"price" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1,max=99"`
}

type checkoutRequest struct {
	FullName string `json:"full_name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=30"`

	ShippingZip        string `json:"shipping_zip" binding:"max=9"`
	ShippingStreet     string `json:"shipping_street" binding:"max=255"`
	ShippingNumber     string `json:"shipping_number" binding:"max=30"`
	ShippingComplement string `json:"shipping_complement" binding:"max=120"`
	ShippingDistrict   string `json:"shipping_district" binding:"max=120"`
	ShippingCity       string `json:"shipping_city" binding:"max=120"`
	ShippingState      string `json:"shipping_state" binding:"max=2"`
	ShippingMethod     string `json:"shipping_method" binding:"max=50"`
	ShippingDays       int    `json:"shipping_days" binding:"gte=0"`
	ShippingPrice      string `json:"shipping_price"`

	Items []checkoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// POST /api/v1/checkout
func (h *OrdersHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("invalid checkout payload", validation.FromBindError(err, &req)))
		return
	}

	in := orders.CheckoutInput{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		ShippingZip:        req.ShippingZip,
		ShippingStreet:     req.ShippingStreet,
		ShippingNumber:     req.ShippingNumber,
		ShippingComplement: req.ShippingComplement,
		ShippingDistrict:   req.ShippingDistrict,
		ShippingCity:       req.ShippingCity,
		ShippingState:      req.ShippingState,
		ShippingMethod:     req.ShippingMethod,
		ShippingDays:       req.ShippingDays,
		ShippingPrice:      req.ShippingPrice,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orders.CheckoutItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Qty:       it.Qty,
		})
	}

	o, err := h.Svc.Checkout(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

// GET /api/v1/orders/:id
func (h *OrdersHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("invalid order id", nil))
		return
	}

	o, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}
