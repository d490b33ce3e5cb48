package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/models"
	"sportsstore/internal/mykafka"
	"sportsstore/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

// CatalogFilter carries the validated storefront query parameters. Zero
// values are no-ops.
type CatalogFilter struct {
	CategoryID   uint
	Search       string
	PriceRange   string
	MinCondition int
	RentDuration int
	Mode         string
}

func catalogFilterFromQuery(c echo.Context) CatalogFilter {
	return CatalogFilter{
		CategoryID:   uint(parseIntDefault(c.QueryParam("categoryId"), 0)),
		Search:       c.QueryParam("search"),
		PriceRange:   c.QueryParam("priceRange"),
		MinCondition: parseIntDefault(c.QueryParam("condition"), 0),
		RentDuration: parseIntDefault(c.QueryParam("rentDuration"), 0),
		Mode:         c.QueryParam("filterMode"),
	}
}

func applyCatalogFilter(q *gorm.DB, f CatalogFilter) *gorm.DB {
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	switch f.PriceRange {
	case "lt50":
		q = q.Where("price < ?", 50000)
	case "50to200":
		q = q.Where("price >= ? AND price <= ?", 50000, 200000)
	case "gt200":
		q = q.Where("price > ?", 200000)
	}
	if f.MinCondition > 0 {
		q = q.Where("condition_percent >= ?", f.MinCondition)
	}
	if f.RentDuration > 0 {
		q = q.Where("rent_duration_days >= ?", f.RentDuration)
	}
	switch f.Mode {
	case "buy":
		q = q.Where("is_for_sale = ?", true)
	case "rent":
		q = q.Where("is_for_rent = ?", true)
	}
	return q
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := util.CatalogPageSize
	offset := (page - 1) * limit

	filter := catalogFilterFromQuery(c)

	var total int64
	if err := applyCatalogFilter(h.DB.Model(&models.Product{}), filter).
		Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := applyCatalogFilter(h.DB.Model(&models.Product{}), filter).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// GetProduct returns the details payload: the product, its reviews newest
// first and up to 8 related products from the same category.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var reviews []models.ProductReview
	if err := h.DB.Where("product_id = ?", product.ID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var related []models.Product
	if err := h.DB.Where("category_id = ? AND id <> ?", product.CategoryID, product.ID).
		Limit(8).
		Find(&related).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"product": product,
		"reviews": reviews,
		"related": related,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req models.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if req.ConditionPercent < 0 || req.ConditionPercent > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "condition must be in [0,100]")
	}

	req.ID = 0
	if err := h.DB.Create(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.indexProduct(c, req)
	publish(c, h.Producer, "product_events", strconv.Itoa(int(req.ID)), map[string]any{
		"type":      "product_created",
		"productID": req.ID,
		"name":      req.Name,
	})

	return c.JSON(http.StatusCreated, req)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if req.ConditionPercent < 0 || req.ConditionPercent > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "condition must be in [0,100]")
	}

	req.ID = prod.ID
	if err := h.DB.Save(&req).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.indexProduct(c, req)
	publish(c, h.Producer, "product_events", strconv.Itoa(int(req.ID)), map[string]any{
		"type":      "product_updated",
		"productID": req.ID,
		"name":      req.Name,
	})

	return c.JSON(http.StatusOK, req)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.removeFromIndex(c, id)
	publish(c, h.Producer, "product_events", strconv.Itoa(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// indexProduct mirrors a product write into the search index. Index failures
// are logged, the catalog row stays authoritative.
func (h *ProductHandler) indexProduct(c echo.Context, p models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(p)
	if err != nil {
		c.Logger().Errorf("ES index marshal error: %v", err)
		return
	}
	res, err := h.ES.Index(h.Index, bytes.NewReader(data),
		h.ES.Index.WithDocumentID(strconv.Itoa(int(p.ID))),
		h.ES.Index.WithContext(ctx),
	)
	if err != nil {
		c.Logger().Errorf("ES index error: %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		c.Logger().Errorf("ES index error: %s", res.Status())
	}
}

func (h *ProductHandler) removeFromIndex(c echo.Context, id int) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.ES.Delete(h.Index, strconv.Itoa(id), h.ES.Delete.WithContext(ctx))
	if err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		c.Logger().Errorf("ES delete error: %s", res.Status())
	}
}
