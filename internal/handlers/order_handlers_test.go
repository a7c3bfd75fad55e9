package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ecomshop/internal/httperr"
	"ecomshop/internal/models"
)

func seedOrder(t *testing.T, db *gorm.DB, buyerID uint) models.Order {
	t.Helper()

	order := models.Order{
		Reference: uuid.NewString(),
		BuyerID:   buyerID,
		Status:    models.StatusNotProcessed,
		Total:     42,
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 1, Price: 42},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestOrderStatusIdempotent(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, "buyer@x.com", "password", models.RoleUser)
	order := seedOrder(t, db, user.ID)
	h := &OrderHandler{DB: db}
	e := echo.New()

	setStatus := func(status string) int {
		c, rec := newJSONContext(t, e, http.MethodPut, "/order-status", map[string]string{"status": status})
		c.SetParamNames("orderId")
		c.SetParamValues("1")
		require.NoError(t, h.UpdateStatus(c))
		return rec.Code
	}

	require.Equal(t, http.StatusOK, setStatus("Shipped"))
	require.Equal(t, http.StatusOK, setStatus("Shipped"))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.Equal(t, models.StatusShipped, stored.Status)
}

func TestOrderStatusRejectsUnknownValue(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, "buyer@x.com", "password", models.RoleUser)
	seedOrder(t, db, user.ID)
	h := &OrderHandler{DB: db}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPut, "/order-status", map[string]string{"status": "Teleported"})
	c.SetParamNames("orderId")
	c.SetParamValues("1")
	err := h.UpdateStatus(c)
	require.True(t, httperr.Is(err, httperr.KindValidation))

	var stored models.Order
	require.NoError(t, db.First(&stored, 1).Error)
	require.Equal(t, models.StatusNotProcessed, stored.Status)
}

func TestOrderStatusMissingOrder(t *testing.T) {
	db := initTestDB(t)
	h := &OrderHandler{DB: db}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPut, "/order-status", map[string]string{"status": "Shipped"})
	c.SetParamNames("orderId")
	c.SetParamValues("99")
	err := h.UpdateStatus(c)
	require.True(t, httperr.Is(err, httperr.KindNotFound))
}

func TestGetOrdersScopedToBuyer(t *testing.T) {
	db := initTestDB(t)
	buyer := seedUser(t, db, "buyer@x.com", "password", models.RoleUser)
	other := seedUser(t, db, "other@x.com", "password", models.RoleUser)
	seedOrder(t, db, buyer.ID)
	seedOrder(t, db, other.ID)
	h := &OrderHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodGet, "/orders", nil)
	c.Set("userID", buyer.ID)
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	orders := body["orders"].([]interface{})
	require.Len(t, orders, 1)

	first := orders[0].(map[string]interface{})
	require.EqualValues(t, buyer.ID, first["buyer_id"])
}
