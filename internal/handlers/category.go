package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/httperr"
	"ecomshop/internal/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

var categoryMessages = map[string]string{
	"Name": "Name is required",
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := checkRequired(req, categoryMessages); err != nil {
		return err
	}

	var existing models.Category
	err := h.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return httperr.Conflict("Category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.Internal(err)
	}

	category := models.Category{Name: req.Name, Slug: slug.Make(req.Name)}
	if err := h.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.Conflict("Category already exists")
		}
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"message":  "New category created",
		"category": category,
	})
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid category id")
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := checkRequired(req, categoryMessages); err != nil {
		return err
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("category not found")
		}
		return httperr.Internal(err)
	}

	category.Name = req.Name
	category.Slug = slug.Make(req.Name)
	if err := h.DB.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.Conflict("Category already exists")
		}
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Category updated successfully",
		"category": category,
	})
}

func (h *CategoryHandler) GetAll(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Fetched all categories successfully",
		"category": categories,
	})
}

func (h *CategoryHandler) GetBySlug(c echo.Context) error {
	var category models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("category not found")
		}
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Fetched single category successfully",
		"category": category,
	})
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid category id")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("category not found")
		}
		return httperr.Internal(err)
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Deleted category successfully",
	})
}
