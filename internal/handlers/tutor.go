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

type TutorHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type bookingRequest struct {
	TutorID       uint      `json:"tutor_id"`
	DurationHours int       `json:"duration_hours"`
	NumberOfDays  int       `json:"number_of_days"`
	StartTime     time.Time `json:"start_time"`
	Notes         string    `json:"notes"`
}

func validateBooking(req bookingRequest) error {
	if req.DurationHours < 1 || req.DurationHours > 24 {
		return errors.New("duration must be between 1 and 24 hours")
	}
	if req.NumberOfDays < 1 || req.NumberOfDays > 365 {
		return errors.New("number of days must be between 1 and 365")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if req.StartTime.Before(today) {
		return errors.New("start date must be today or later")
	}
	return nil
}

func (h *TutorHandler) ListTutors(c echo.Context) error {
	var tutors []models.Tutor
	if err := h.DB.Order("id DESC").Find(&tutors).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tutors)
}

func (h *TutorHandler) GetTutor(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tutor id")
	}

	var tutor models.Tutor
	if err := h.DB.First(&tutor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tutor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tutor)
}

// Book validates the request and returns a draft quote. Nothing is persisted
// until ConfirmBooking.
func (h *TutorHandler) Book(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var tutor models.Tutor
	if err := h.DB.First(&tutor, req.TutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tutor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := validateBooking(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	totalPrice := tutor.HourlyRate * float64(req.DurationHours) * float64(req.NumberOfDays)
	draft := models.TutorBooking{
		TutorID:       tutor.ID,
		UserID:        userID,
		DurationHours: req.DurationHours,
		NumberOfDays:  req.NumberOfDays,
		StartTime:     req.StartTime,
		Notes:         req.Notes,
		TotalPrice:    totalPrice,
		Confirmed:     false,
		Paid:          false,
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tutor":   tutor,
		"booking": draft,
	})
}

// ConfirmBooking re-validates and persists the booking with confirmed=true,
// paid=false. Payment is the next step.
func (h *TutorHandler) ConfirmBooking(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var tutor models.Tutor
	if err := h.DB.First(&tutor, req.TutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tutor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := validateBooking(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	}
	customerName := user.FullName
	if customerName == "" {
		customerName = user.Username
	}

	booking := models.TutorBooking{
		TutorID:       tutor.ID,
		UserID:        userID,
		CustomerName:  customerName,
		CustomerPhone: user.PhoneNumber,
		DurationHours: req.DurationHours,
		NumberOfDays:  req.NumberOfDays,
		StartTime:     req.StartTime,
		Notes:         req.Notes,
		TotalPrice:    tutor.HourlyRate * float64(req.DurationHours) * float64(req.NumberOfDays),
		Confirmed:     true,
		Paid:          false,
		CreatedAt:     time.Now(),
	}
	if err := h.DB.Create(&booking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "booking_events", fmt.Sprint(userID), map[string]any{
		"type":      "booking_confirmed",
		"userID":    userID,
		"bookingID": booking.ID,
		"tutorID":   tutor.ID,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"booking":     booking,
		"payment_url": fmt.Sprintf("/api/v1/bookings/%d/payment", booking.ID),
	})
}

func (h *TutorHandler) Payment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, tutor, err := h.ownedBooking(uint(id), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking": booking,
		"tutor":   tutor,
	})
}

// ProcessPayment marks the booking paid. There is no payment gateway behind
// this; it stands in for one.
func (h *TutorHandler) ProcessPayment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, _, err := h.ownedBooking(uint(id), userID)
	if err != nil {
		return err
	}

	booking.Paid = true
	if err := h.DB.Save(&booking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "booking_events", fmt.Sprint(userID), map[string]any{
		"type":      "booking_paid",
		"userID":    userID,
		"bookingID": booking.ID,
	})

	return c.JSON(http.StatusOK, booking)
}

func (h *TutorHandler) MyBookings(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var bookings []models.TutorBooking
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *TutorHandler) ownedBooking(id, userID uint) (models.TutorBooking, models.Tutor, error) {
	var booking models.TutorBooking
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, models.Tutor{}, echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return booking, models.Tutor{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var tutor models.Tutor
	if err := h.DB.First(&tutor, booking.TutorID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return booking, tutor, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return booking, tutor, nil
}
