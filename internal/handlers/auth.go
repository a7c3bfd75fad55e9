package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/events"
	"ecomshop/internal/hash"
	"ecomshop/internal/httperr"
	"ecomshop/internal/middleware/auth"
	"ecomshop/internal/models"
	"ecomshop/internal/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

var registerMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Email is required",
	"Password": "Password is required",
	"Phone":    "Phone number is required",
	"Address":  "Address is required",
	"Answer":   "Answer is required",
}

const duplicateUserMessage = "User has already been registered, please login"

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := checkRequired(req, registerMessages); err != nil {
		return err
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return httperr.Conflict(duplicateUserMessage)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.Internal(err)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return httperr.Internal(err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
		Address:  req.Address,
		Answer:   req.Answer,
		Role:     models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// the unique index on email closes the check-then-insert race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.Conflict(duplicateUserMessage)
		}
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// the same message covers a missing field, an unknown email and a wrong
// password, so responses never reveal whether an account exists
const invalidCredentialsMessage = "Invalid email or password"

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return httperr.Validation(invalidCredentialsMessage)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.Auth(invalidCredentialsMessage)
		}
		return httperr.Internal(err)
	}

	if !hash.CheckPassword(user.Password, req.Password) {
		return httperr.Auth(invalidCredentialsMessage)
	}

	tok, err := token.Sign(user.ID, h.JWTSecret, token.DefaultTTL)
	if err != nil {
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged in successfully",
		"user":    user,
		"token":   tok,
	})
}

type forgotPasswordRequest struct {
	Email       string `json:"email"       validate:"required"`
	Answer      string `json:"answer"      validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

var forgotPasswordMessages = map[string]string{
	"Email":       "Email is required",
	"Answer":      "Answer to the question is required",
	"NewPassword": "New password is required",
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := checkRequired(req, forgotPasswordMessages); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ? AND answer = ?", req.Email, req.Answer).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("Invalid email or answer")
		}
		return httperr.Internal(err)
	}

	hashed, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return httperr.Internal(err)
	}
	if err := h.DB.Model(&user).Update("password", hashed).Error; err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password has been reset successfully",
	})
}

type profileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	var user models.User
	if err := h.DB.First(&user, auth.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("user not found")
		}
		return httperr.Internal(err)
	}

	if req.Password != "" && len(req.Password) < 6 {
		return httperr.Validation("Password must be at least 6 characters long")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Password != "" {
		hashed, err := hash.HashPassword(req.Password)
		if err != nil {
			return httperr.Internal(err)
		}
		user.Password = hashed
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.Conflict("Email is already in use")
		}
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Updated user profile successfully",
		"updatedUser": user,
	})
}

// Test answers the admin capability probe.
func (h *AuthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, "Protected Routes")
}

// Probe answers the signed-in capability probes.
func Probe(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
