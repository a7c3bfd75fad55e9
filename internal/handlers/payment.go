package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/events"
	"ecomshop/internal/httperr"
	"ecomshop/internal/middleware/auth"
	"ecomshop/internal/models"
	"ecomshop/internal/payment"
)

type PaymentHandler struct {
	DB       *gorm.DB
	Gateway  payment.Gateway
	Producer *events.Producer
}

func (h *PaymentHandler) Token(c echo.Context) error {
	tok, err := h.Gateway.ClientToken(c.Request().Context())
	if err != nil {
		return httperr.Upstream("payment gateway unavailable", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"clientToken": tok})
}

type cartEntry struct {
	ProductID uint    `json:"product_id"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type checkoutRequest struct {
	Nonce string      `json:"nonce"`
	Cart  []cartEntry `json:"cart"`
}

// Checkout submits the sale first and persists the order only on gateway
// success; a declined or failed payment leaves no record.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if req.Nonce == "" {
		return httperr.Validation("Payment nonce is required")
	}
	if len(req.Cart) == 0 {
		return httperr.Validation("Cart is empty")
	}

	// each cart entry carries its own price; duplicates express quantity
	var total float64
	items := make([]models.OrderItem, 0, len(req.Cart))
	for _, entry := range req.Cart {
		if entry.ProductID == 0 {
			return httperr.Validation("Cart entry is missing a product id")
		}
		if entry.Price < 0 {
			return httperr.Validation("Cart entry price must not be negative")
		}
		total += entry.Price

		quantity := entry.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			ProductID: entry.ProductID,
			Quantity:  quantity,
			Price:     entry.Price,
		})
	}

	result, err := h.Gateway.Sale(c.Request().Context(), total, req.Nonce)
	if err != nil {
		return httperr.Upstream("payment failed", err)
	}

	order := models.Order{
		Reference:     uuid.NewString(),
		BuyerID:       auth.UserID(c),
		Status:        models.StatusNotProcessed,
		PaymentID:     result.TransactionID,
		PaymentStatus: result.Status,
		Total:         result.Amount,
		Items:         items,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.ID), map[string]interface{}{
		"type":     "order_created",
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"total":    order.Total,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"ok":    true,
		"order": order,
	})
}
