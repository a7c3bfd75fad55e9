package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecomshop/internal/events"
	"ecomshop/internal/httperr"
	"ecomshop/internal/logging"
	"ecomshop/internal/models"
	"ecomshop/internal/search"
	"ecomshop/internal/util"
)

// MaxPhotoBytes is the photo size ceiling; 100000 passes, 100001 does not.
const MaxPhotoBytes = 100000

const photoMessage = "Photo is required and it should be less than 100kb"

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Index    *search.Index
}

type productForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       string `validate:"required"`
	Category    string `validate:"required"`
	Quantity    string `validate:"required"`
	Shipping    string `validate:"required"`
}

var productMessages = map[string]string{
	"Name":        "Name is required",
	"Description": "Description is required",
	"Price":       "Price is required",
	"Category":    "Category is required",
	"Quantity":    "Quantity is required",
	"Shipping":    "Shipping is required",
}

// productFromForm validates the multipart form and builds the product,
// photo bytes included.
func (h *ProductHandler) productFromForm(c echo.Context) (*models.Product, error) {
	form := productForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Category:    c.FormValue("category"),
		Quantity:    c.FormValue("quantity"),
		Shipping:    c.FormValue("shipping"),
	}
	if err := checkRequired(form, productMessages); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		return nil, httperr.Validation("Price must be a number")
	}
	categoryID, err := strconv.ParseUint(form.Category, 10, 64)
	if err != nil {
		return nil, httperr.Validation("Category must be a category id")
	}
	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil {
		return nil, httperr.Validation("Quantity must be a number")
	}
	shipping, err := strconv.ParseBool(form.Shipping)
	if err != nil {
		return nil, httperr.Validation("Shipping must be true or false")
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return nil, httperr.Validation(photoMessage)
	}
	if fh.Size > MaxPhotoBytes {
		return nil, httperr.Validation(photoMessage)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer f.Close()

	photo, err := io.ReadAll(f)
	if err != nil {
		return nil, httperr.Internal(err)
	}

	return &models.Product{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: form.Description,
		Price:       price,
		CategoryID:  uint(categoryID),
		Quantity:    quantity,
		Photo:       photo,
		PhotoType:   fh.Header.Get("Content-Type"),
		Shipping:    shipping,
	}, nil
}

func (h *ProductHandler) mirror(c echo.Context, product *models.Product) {
	if h.Index == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Index.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Error("search index error", "product_id", product.ID, "error", err)
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	product, err := h.productFromForm(c)
	if err != nil {
		return err
	}

	if err := h.DB.Create(product).Error; err != nil {
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(product.ID), map[string]interface{}{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})
	h.mirror(c, product)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return httperr.Validation("invalid product id")
	}

	var existing models.Product
	if err := h.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("product not found")
		}
		return httperr.Internal(err)
	}

	product, err := h.productFromForm(c)
	if err != nil {
		return err
	}

	existing.Name = product.Name
	existing.Slug = product.Slug
	existing.Description = product.Description
	existing.Price = product.Price
	existing.CategoryID = product.CategoryID
	existing.Quantity = product.Quantity
	existing.Photo = product.Photo
	existing.PhotoType = product.PhotoType
	existing.Shipping = product.Shipping

	if err := h.DB.Save(&existing).Error; err != nil {
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(existing.ID), map[string]interface{}{
		"type":       "product_updated",
		"product_id": existing.ID,
		"name":       existing.Name,
	})
	h.mirror(c, &existing)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": existing,
	})
}

func (h *ProductHandler) GetAll(c echo.Context) error {
	var products []models.Product
	err := h.DB.
		Select(productColumns).
		Preload("Category").
		Order("created_at DESC").
		Limit(12).
		Find(&products).Error
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Fetched all products successfully",
		"total_count": len(products),
		"products":    products,
	})
}

func (h *ProductHandler) GetBySlug(c echo.Context) error {
	var product models.Product
	err := h.DB.
		Select(productColumns).
		Preload("Category").
		Where("slug = ?", c.Param("slug")).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("product not found")
		}
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Fetched the product successfully",
		"product": product,
	})
}

func (h *ProductHandler) Photo(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return httperr.Validation("invalid product id")
	}

	var product models.Product
	if err := h.DB.Select([]string{"id", "photo", "photo_type"}).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("product not found")
		}
		return httperr.Internal(err)
	}
	if len(product.Photo) == 0 {
		return httperr.NotFound("product photo not found")
	}

	contentType := product.PhotoType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, contentType, product.Photo)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return httperr.Validation("invalid product id")
	}

	var product models.Product
	if err := h.DB.Select(productColumns).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("product not found")
		}
		return httperr.Internal(err)
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return httperr.Internal(err)
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(id), map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
	})
	if h.Index != nil {
		ctx := c.Request().Context()
		if err := h.Index.DeleteProduct(ctx, uint(id)); err != nil {
			logging.FromContext(ctx).Error("search index error", "product_id", id, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product deleted successfully",
		"product": product,
	})
}

type filterRequest struct {
	Checked []uint    `json:"checked"`
	Radio   []float64 `json:"radio"`
}

func (h *ProductHandler) Filters(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	q := h.DB.Select(productColumns).Preload("Category")
	if len(req.Checked) > 0 {
		q = q.Where("category_id IN ?", req.Checked)
	}
	if len(req.Radio) >= 2 {
		q = q.Where("price >= ? AND price <= ?", req.Radio[0], req.Radio[1])
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Filtered products fetched successfully",
		"products": products,
	})
}

func (h *ProductHandler) Count(c echo.Context) error {
	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product count executed successfully",
		"total":   total,
	})
}

func (h *ProductHandler) ListPage(c echo.Context) error {
	page := parseIntDefault(c.Param("page"), 1)
	offset, limit := util.Calculate(page, util.ProductPageSize)

	var products []models.Product
	err := h.DB.
		Select(productColumns).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": products,
	})
}

func (h *ProductHandler) Search(c echo.Context) error {
	keyword := c.Param("keyword")
	if keyword == "" {
		return httperr.Validation("keyword is required")
	}

	ctx := c.Request().Context()

	if h.Index != nil {
		ids, err := h.Index.Search(ctx, keyword, 50)
		if err == nil {
			products := []models.Product{}
			if len(ids) > 0 {
				if err := h.DB.Select(productColumns).Where("id IN ?", ids).Find(&products).Error; err != nil {
					return httperr.Internal(err)
				}
			}
			return c.JSON(http.StatusOK, products)
		}
		logging.FromContext(ctx).Error("search index query failed, falling back to database", "error", err)
	}

	pattern := "%" + strings.ToLower(keyword) + "%"
	var products []models.Product
	err := h.DB.
		Select(productColumns).
		Where("lower(name) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Find(&products).Error
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Related(c echo.Context) error {
	pid, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return httperr.Validation("invalid product id")
	}
	cid, err := strconv.Atoi(c.Param("cid"))
	if err != nil {
		return httperr.Validation("invalid category id")
	}

	var products []models.Product
	err = h.DB.
		Select(productColumns).
		Preload("Category").
		Where("category_id = ? AND id <> ?", cid, pid).
		Limit(3).
		Find(&products).Error
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": products,
	})
}

func (h *ProductHandler) ByCategory(c echo.Context) error {
	var category models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("category not found")
		}
		return httperr.Internal(err)
	}

	var products []models.Product
	err := h.DB.
		Select(productColumns).
		Preload("Category").
		Where("category_id = ?", category.ID).
		Find(&products).Error
	if err != nil {
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Category wise products fetched successfully",
		"category": category,
		"products": products,
	})
}
