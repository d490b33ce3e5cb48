package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/cart"
	"sportsstore/internal/models"
	"sportsstore/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Carts    *cart.Store
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ct := h.Carts.Get(userID)
	return c.JSON(http.StatusOK, echo.Map{
		"lines": ct.Lines,
		"total": ct.Total(),
	})
}

// AddToCart merges a purchase or rental line into the session cart. The
// product must carry the matching sale/rent flag; the cart itself does not
// re-check eligibility.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID  uint `json:"product_id"`
		Quantity   int  `json:"quantity"`
		IsRental   bool `json:"is_rental"`
		RentalDays int  `json:"rental_days"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 0 || req.RentalDays < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity and rental_days must be >= 0")
	}
	if req.Quantity < 1 && !req.IsRental {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.IsRental && !product.IsForRent {
		return echo.NewHTTPError(http.StatusBadRequest, "product is not for rent")
	}
	if !req.IsRental && !product.IsForSale {
		return echo.NewHTTPError(http.StatusBadRequest, "product is not for sale")
	}

	ct := h.Carts.Get(userID)
	ct.AddItem(product, req.Quantity, req.IsRental, req.RentalDays)

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": product.ID,
		"isRental":  req.IsRental,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"lines": ct.Lines,
		"total": ct.Total(),
	})
}

// RemoveLine drops every cart line for the product in the given mode.
func (h *CartHandler) RemoveLine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	isRental := c.QueryParam("rental") == "true"

	ct := h.Carts.Get(userID)
	ct.RemoveLine(uint(productID), isRental)

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_line_removed",
		"userID":    userID,
		"productID": productID,
		"isRental":  isRental,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"lines": ct.Lines,
		"total": ct.Total(),
	})
}
