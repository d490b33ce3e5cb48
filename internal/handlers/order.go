package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/cart"
	"sportsstore/internal/models"
	"sportsstore/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Carts    *cart.Store
	Producer *mykafka.Producer
}

type checkoutRequest struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	GiftWrap bool   `json:"gift_wrap"`
}

// Checkout turns the session cart into at most one purchase order plus one
// rental row per rental line. The order and the rentals are persisted in
// separate transactions; a rental failure does not roll the order back. The
// cart is cleared once both passes ran.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ct := h.Carts.Get(userID)
	purchaseLines, rentalLines := ct.Split()
	if len(purchaseLines) == 0 && len(rentalLines) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	var order models.Order
	if len(purchaseLines) > 0 {
		txErr := h.DB.Transaction(func(tx *gorm.DB) error {
			var total float64
			lines := make([]models.OrderLine, 0, len(purchaseLines))
			for _, l := range purchaseLines {
				lineTotal := l.Total()
				total += lineTotal
				lines = append(lines, models.OrderLine{
					ProductID: l.Product.ID,
					Name:      l.Product.Name,
					UnitPrice: l.Product.Price,
					Quantity:  uint(l.Quantity),
					LineTotal: lineTotal,
				})
			}

			order = models.Order{
				UserID:      userID,
				Name:        req.Name,
				Line1:       req.Line1,
				Line2:       req.Line2,
				City:        req.City,
				State:       req.State,
				Zip:         req.Zip,
				Country:     req.Country,
				GiftWrap:    req.GiftWrap,
				TotalAmount: total,
				Status:      models.OrderStatusPending,
				CreatedAt:   time.Now(),
				Lines:       lines,
			}
			return tx.Create(&order).Error
		})
		if txErr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
		}
	}

	rentals := make([]models.Rental, 0, len(rentalLines))
	if len(rentalLines) > 0 {
		today := time.Now().Truncate(24 * time.Hour)
		txErr := h.DB.Transaction(func(tx *gorm.DB) error {
			for _, l := range rentalLines {
				days := l.RentalDays
				if days < 1 {
					days = 1
				}
				rental := models.Rental{
					UserID:    userID,
					ProductID: l.Product.ID,
					ItemTitle: l.Product.Name,
					StartDate: today,
					EndDate:   today.AddDate(0, 0, days),
					Returned:  false,
				}
				if err := tx.Create(&rental).Error; err != nil {
					return err
				}
				rentals = append(rentals, rental)
			}
			return nil
		})
		if txErr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
		}
	}

	ct.Clear()
	h.Carts.Clear(userID)

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "checkout_completed",
		"userID":  userID,
		"orderID": order.ID,
		"rentals": len(rentals),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"order":   order,
		"rentals": rentals,
	})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	q := h.DB.Where("user_id = ?", userID)
	if status := c.QueryParam("status"); status != "" {
		if !models.KnownOrderStatus(status) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Preload("Lines").Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) OrderDetails(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.Preload("Lines").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel marks the order cancelled. Only the owning user may cancel and only
// while the order is still pending; anything else fails closed.
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if order.Status != models.OrderStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "order can no longer be cancelled")
	}

	order.Status = models.OrderStatusCancelled
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "order_cancelled",
		"userID":  userID,
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, order)
}

// UpdateStatus lets the owning user set any known status. There is no
// transition table; unknown values are rejected.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !models.KnownOrderStatus(req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "order_status_updated",
		"userID":  userID,
		"orderID": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, order)
}
