package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ecomshop/internal/hash"
	"ecomshop/internal/httperr"
	"ecomshop/internal/models"
)

func registerPayload() map[string]string {
	return map[string]string{
		"name":     "Test User",
		"email":    "a@x.com",
		"password": "password",
		"phone":    "1234567890",
		"address":  "1 Main Street",
		"answer":   "football",
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, role int) models.User {
	t.Helper()

	hashed, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Name:     "Seed User",
		Email:    email,
		Password: hashed,
		Phone:    "1234567890",
		Address:  "1 Main Street",
		Answer:   "football",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRegister(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/register", registerPayload())
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])

	user := body["user"].(map[string]interface{})
	require.Equal(t, "a@x.com", user["email"])
	// password and answer never leave the server
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "answer")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
	require.NotEqual(t, "password", stored.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/register", registerPayload())
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	second := registerPayload()
	second["name"] = "Different Name"
	c2, _ := newJSONContext(t, e, http.MethodPost, "/register", second)
	err := h.Register(c2)
	require.True(t, httperr.Is(err, httperr.KindConflict))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	require.EqualValues(t, 1, count)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
	require.Equal(t, "Test User", stored.Name)
}

func TestRegisterMissingFieldOrder(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/register", map[string]string{})
	err := h.Register(c)
	require.True(t, httperr.Is(err, httperr.KindValidation))
	require.Equal(t, "Name is required", err.(*httperr.Error).Message)

	payload := registerPayload()
	delete(payload, "phone")
	c2, _ := newJSONContext(t, e, http.MethodPost, "/register", payload)
	err = h.Register(c2)
	require.True(t, httperr.Is(err, httperr.KindValidation))
	require.Equal(t, "Phone number is required", err.(*httperr.Error).Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := initTestDB(t)
	seedUser(t, db, "a@x.com", "password", models.RoleUser)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	wrongPassword := h.Login(c)
	require.True(t, httperr.Is(wrongPassword, httperr.KindAuth))

	c2, _ := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"email": "missing@x.com", "password": "password",
	})
	unknownEmail := h.Login(c2)
	require.True(t, httperr.Is(unknownEmail, httperr.KindAuth))

	// neither response reveals whether the email exists
	require.Equal(t,
		wrongPassword.(*httperr.Error).Message,
		unknownEmail.(*httperr.Error).Message,
	)
}

func TestLoginIssuesSevenDayToken(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, "a@x.com", "password", models.RoleUser)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	raw, ok := body["token"].(string)
	require.True(t, ok, "expected token in response")

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	require.EqualValues(t, user.ID, claims["sub"].(float64))

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	want := time.Now().Add(7 * 24 * time.Hour)
	require.WithinDuration(t, want, exp, time.Minute)
}

func TestForgotPassword(t *testing.T) {
	db := initTestDB(t)
	seedUser(t, db, "a@x.com", "password", models.RoleUser)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/forgot-password", map[string]string{
		"email": "a@x.com", "answer": "basketball", "newPassword": "newpassword",
	})
	err := h.ForgotPassword(c)
	require.True(t, httperr.Is(err, httperr.KindNotFound))

	c2, rec := newJSONContext(t, e, http.MethodPost, "/forgot-password", map[string]string{
		"email": "a@x.com", "answer": "football", "newPassword": "newpassword",
	})
	require.NoError(t, h.ForgotPassword(c2))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
	require.True(t, hash.CheckPassword(stored.Password, "newpassword"))
}

func TestUpdateProfilePartial(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, "a@x.com", "password", models.RoleUser)
	h := &AuthHandler{DB: db, JWTSecret: testSecret}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPut, "/profile", map[string]string{
		"name": "Renamed",
	})
	c.Set("userID", user.ID)
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "Renamed", stored.Name)
	require.Equal(t, "a@x.com", stored.Email)
	require.Equal(t, "1234567890", stored.Phone)
	require.True(t, hash.CheckPassword(stored.Password, "password"))

	c2, _ := newJSONContext(t, e, http.MethodPut, "/profile", map[string]string{
		"password": "short",
	})
	c2.Set("userID", user.ID)
	err := h.UpdateProfile(c2)
	require.True(t, httperr.Is(err, httperr.KindValidation))
}
