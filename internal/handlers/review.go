package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/models"
	"sportsstore/internal/mykafka"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// ReviewContext returns what the review form needs: the product, existing
// reviews and whether the current user already reviewed it.
func (h *ReviewHandler) ReviewContext(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
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

	var count int64
	if err := h.DB.Model(&models.ProductReview{}).
		Where("product_id = ? AND user_id = ?", product.ID, userID).
		Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product":          product,
		"reviews":          reviews,
		"already_reviewed": count > 0,
	})
}

// SubmitReview records one review per (user, product), gated on a shipped
// order of that user containing the product.
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if req.Comment == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "comment required")
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var existing int64
	if err := h.DB.Model(&models.ProductReview{}).
		Where("product_id = ? AND user_id = ?", req.ProductID, userID).
		Count(&existing).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing > 0 {
		return echo.NewHTTPError(http.StatusConflict, "you have already reviewed this product")
	}

	var purchased int64
	if err := h.DB.Model(&models.Order{}).
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_lines.product_id = ?",
			userID, models.OrderStatusShipped, req.ProductID).
		Count(&purchased).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if purchased == 0 {
		return echo.NewHTTPError(http.StatusForbidden, "you can only review products from delivered orders")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	customerName := user.FullName
	if customerName == "" {
		customerName = user.Username
	}

	review := models.ProductReview{
		ProductID:    req.ProductID,
		UserID:       userID,
		CustomerName: customerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CreatedAt:    time.Now(),
	}
	if err := h.DB.Create(&review).Error; err != nil {
		c.Logger().Errorf("review save error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save review")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(req.ProductID), map[string]any{
		"type":      "review_submitted",
		"userID":    userID,
		"productID": req.ProductID,
		"rating":    req.Rating,
	})

	return c.JSON(http.StatusCreated, review)
}
