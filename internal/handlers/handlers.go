package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/events"
	"ecomshop/internal/httperr"
	"ecomshop/internal/logging"
)

var validate = validator.New()

// checkRequired reports the first failed field only; validator walks the
// struct in declaration order, which fixes the order of the messages.
func checkRequired(s interface{}, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		if msg, ok := messages[ve[0].Field()]; ok {
			return httperr.Validation(msg)
		}
		return httperr.Validation(ve[0].Field() + " is required")
	}
	return httperr.Validation("invalid request")
}

// productColumns is every Product column except the photo bytes; listings
// never ship the binary payload.
var productColumns = []string{
	"id", "name", "slug", "description", "price", "category_id",
	"quantity", "photo_type", "shipping", "created_at", "updated_at",
}

func selectProductSummary(db *gorm.DB) *gorm.DB {
	return db.Select(productColumns)
}

func selectBuyerName(db *gorm.DB) *gorm.DB {
	return db.Select([]string{"id", "name"})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]interface{}) {
	ctx := c.Request().Context()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}
