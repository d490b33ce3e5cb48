package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/models"
)

type StatsHandler struct {
	DB *gorm.DB
}

type RevenueStat struct {
	Date         string  `json:"date"`
	OrderRevenue float64 `json:"order_revenue"`
	TutorRevenue float64 `json:"tutor_revenue"`
}

const dateLayout = "2006-01-02"

// RevenueStats groups order line totals by order date and paid booking
// totals by booking date, unions the dates and zero-fills the gaps.
// Cancelled orders are excluded.
func (h *StatsHandler) RevenueStats(c echo.Context) error {
	var from, to time.Time
	var err error

	if v := c.QueryParam("fromDate"); v != "" {
		from, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid fromDate")
		}
	}
	if v := c.QueryParam("toDate"); v != "" {
		to, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid toDate")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return echo.NewHTTPError(http.StatusBadRequest, "fromDate must not be after toDate")
	}

	ordersQ := h.DB.Preload("Lines").Where("status <> ?", models.OrderStatusCancelled)
	bookingsQ := h.DB.Where("paid = ?", true)
	if !from.IsZero() {
		ordersQ = ordersQ.Where("created_at >= ?", from)
		bookingsQ = bookingsQ.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		end := to.AddDate(0, 0, 1)
		ordersQ = ordersQ.Where("created_at < ?", end)
		bookingsQ = bookingsQ.Where("created_at < ?", end)
	}

	var orders []models.Order
	if err := ordersQ.Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var bookings []models.TutorBooking
	if err := bookingsQ.Find(&bookings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	orderByDate := make(map[string]float64)
	for _, o := range orders {
		day := o.CreatedAt.Format(dateLayout)
		for _, l := range o.Lines {
			orderByDate[day] += l.LineTotal
		}
	}

	tutorByDate := make(map[string]float64)
	for _, b := range bookings {
		day := b.CreatedAt.Format(dateLayout)
		tutorByDate[day] += b.TotalPrice
	}

	seen := make(map[string]bool)
	dates := make([]string, 0, len(orderByDate)+len(tutorByDate))
	for d := range orderByDate {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	for d := range tutorByDate {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	stats := make([]RevenueStat, 0, len(dates))
	for _, d := range dates {
		stats = append(stats, RevenueStat{
			Date:         d,
			OrderRevenue: orderByDate[d],
			TutorRevenue: tutorByDate[d],
		})
	}

	return c.JSON(http.StatusOK, stats)
}
