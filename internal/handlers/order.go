package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/events"
	"ecomshop/internal/httperr"
	"ecomshop/internal/middleware/auth"
	"ecomshop/internal/models"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *OrderHandler) loadOrders(q *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := q.
		Preload("Items.Product", selectProductSummary).
		Preload("Buyer", selectBuyerName).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.loadOrders(h.DB.Where("buyer_id = ?", auth.UserID(c)))
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	orders, err := h.loadOrders(h.DB)
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus overwrites the stored status with any valid status value;
// re-setting the current status is a no-op success.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return httperr.Validation("invalid order id")
	}

	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		return httperr.Validation("invalid order status")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("order not found")
		}
		return httperr.Internal(err)
	}

	if order.Status != status {
		if err := h.DB.Model(&order).Update("status", status).Error; err != nil {
			return httperr.Internal(err)
		}
		order.Status = status

		publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.ID), map[string]interface{}{
			"type":     "order_status_changed",
			"order_id": order.ID,
			"status":   status,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"order":   order,
	})
}
