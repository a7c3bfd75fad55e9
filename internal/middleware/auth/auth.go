package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/httperr"
	"ecomshop/internal/models"
	"ecomshop/internal/token"
)

const userIDKey = "userID"

type Middleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// RequireSignIn rejects the request with an unauthenticated response
// whenever token verification fails; downstream handlers only ever run
// with a verified user ID in the context.
func (m *Middleware) RequireSignIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(echo.HeaderAuthorization)
		// clients send the raw token; a Bearer prefix is tolerated
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		if raw == "" {
			return httperr.Auth("authentication required")
		}

		userID, err := token.Parse(raw, m.JWTSecret)
		if err != nil {
			return httperr.Auth("invalid or expired token")
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// RequireAdmin assumes RequireSignIn already ran. A user deleted after
// token issuance is denied, not treated as a server fault.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var user models.User
		if err := m.DB.First(&user, UserID(c)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.Forbidden("Unauthorized Access")
			}
			return httperr.Internal(err)
		}

		if !user.IsAdmin() {
			return httperr.Forbidden("Unauthorized Access")
		}

		return next(c)
	}
}

func UserID(c echo.Context) uint {
	if id, ok := c.Get(userIDKey).(uint); ok {
		return id
	}
	return 0
}
