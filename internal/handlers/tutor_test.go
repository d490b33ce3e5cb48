package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sportsstore/internal/models"
)

func seedTutor(env *testEnv, rate float64) models.Tutor {
	tutor := models.Tutor{Name: "Prof. Minh", Subject: "Calculus", HourlyRate: rate}
	require.NoError(env.t, env.db.Create(&tutor).Error)
	return tutor
}

func TestBookReturnsQuoteWithoutPersisting(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret", "user")
	seedTutor(env, 150)

	h := &TutorHandler{DB: env.db}

	load := map[string]any{
		"tutor_id":       1,
		"duration_hours": 2,
		"number_of_days": 3,
		"start_time":     time.Now().AddDate(0, 0, 1).Format(time.RFC3339),
	}
	rec, c := env.doJSON(http.MethodPost, "/api/v1/bookings", load, 1, "user")
	require.NoError(t, h.Book(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Booking models.TutorBooking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(900), resp.Booking.TotalPrice)

	var count int64
	env.db.Model(&models.TutorBooking{}).Count(&count)
	require.Zero(t, count)
}

func TestBookValidationBounds(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret", "user")
	seedTutor(env, 150)

	h := &TutorHandler{DB: env.db}
	tomorrow := time.Now().AddDate(0, 0, 1).Format(time.RFC3339)

	cases := []map[string]any{
		{"tutor_id": 1, "duration_hours": 0, "number_of_days": 1, "start_time": tomorrow},
		{"tutor_id": 1, "duration_hours": 25, "number_of_days": 1, "start_time": tomorrow},
		{"tutor_id": 1, "duration_hours": 1, "number_of_days": 0, "start_time": tomorrow},
		{"tutor_id": 1, "duration_hours": 1, "number_of_days": 366, "start_time": tomorrow},
		{"tutor_id": 1, "duration_hours": 1, "number_of_days": 1, "start_time": time.Now().AddDate(0, 0, -2).Format(time.RFC3339)},
	}
	for _, load := range cases {
		_, c := env.doJSON(http.MethodPost, "/api/v1/bookings", load, 1, "user")
		he := httpErr(t, h.Book(c))
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestBookUnknownTutor(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret", "user")

	h := &TutorHandler{DB: env.db}

	load := map[string]any{"tutor_id": 7, "duration_hours": 1, "number_of_days": 1, "start_time": time.Now().AddDate(0, 0, 1).Format(time.RFC3339)}
	_, c := env.doJSON(http.MethodPost, "/api/v1/bookings", load, 1, "user")
	he := httpErr(t, h.Book(c))
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestConfirmBookingPersistsUnpaid(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret", "user")
	seedTutor(env, 100)

	h := &TutorHandler{DB: env.db}

	load := map[string]any{
		"tutor_id":       1,
		"duration_hours": 2,
		"number_of_days": 5,
		"start_time":     time.Now().AddDate(0, 0, 2).Format(time.RFC3339),
		"notes":          "exam prep",
	}
	rec, c := env.doJSON(http.MethodPost, "/api/v1/bookings/confirm", load, 1, "user")
	require.NoError(t, h.ConfirmBooking(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Booking    models.TutorBooking `json:"booking"`
		PaymentURL string              `json:"payment_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "/api/v1/bookings/1/payment", resp.PaymentURL)

	var booking models.TutorBooking
	require.NoError(t, env.db.First(&booking, 1).Error)
	require.True(t, booking.Confirmed)
	require.False(t, booking.Paid)
	require.Equal(t, float64(1000), booking.TotalPrice)
	require.Equal(t, "alice", booking.CustomerName)
}

func TestProcessPaymentMarksPaid(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret", "user")
	tutor := seedTutor(env, 100)
	require.NoError(t, env.db.Create(&models.TutorBooking{
		TutorID: tutor.ID, UserID: 1, DurationHours: 1, NumberOfDays: 1,
		StartTime: time.Now().AddDate(0, 0, 1), TotalPrice: 100,
		Confirmed: true, CreatedAt: time.Now(),
	}).Error)

	h := &TutorHandler{DB: env.db}

	rec, c := env.doJSON(http.MethodPost, "/api/v1/bookings/1/pay", nil, 1, "user")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.ProcessPayment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var booking models.TutorBooking
	require.NoError(t, env.db.First(&booking, 1).Error)
	require.True(t, booking.Paid)
}

func TestForeignBookingFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	tutor := seedTutor(env, 100)
	require.NoError(t, env.db.Create(&models.TutorBooking{
		TutorID: tutor.ID, UserID: 2, DurationHours: 1, NumberOfDays: 1,
		StartTime: time.Now().AddDate(0, 0, 1), TotalPrice: 100,
		Confirmed: true, CreatedAt: time.Now(),
	}).Error)

	h := &TutorHandler{DB: env.db}

	_, c := env.doJSON(http.MethodGet, "/api/v1/bookings/1/payment", nil, 1, "user")
	c.SetParamNames("id")
	c.SetParamValues("1")
	he := httpErr(t, h.Payment(c))
	require.Equal(t, http.StatusNotFound, he.Code)

	_, c = env.doJSON(http.MethodPost, "/api/v1/bookings/1/pay", nil, 1, "user")
	c.SetParamNames("id")
	c.SetParamValues("1")
	he = httpErr(t, h.ProcessPayment(c))
	require.Equal(t, http.StatusNotFound, he.Code)

	var booking models.TutorBooking
	require.NoError(t, env.db.First(&booking, 1).Error)
	require.False(t, booking.Paid)
}

func TestMyBookings(t *testing.T) {
	env := newTestEnv(t)
	tutor := seedTutor(env, 100)
	require.NoError(t, env.db.Create(&models.TutorBooking{
		TutorID: tutor.ID, UserID: 1, DurationHours: 1, NumberOfDays: 1,
		StartTime: time.Now(), TotalPrice: 100, Confirmed: true,
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, env.db.Create(&models.TutorBooking{
		TutorID: tutor.ID, UserID: 1, DurationHours: 2, NumberOfDays: 1,
		StartTime: time.Now(), TotalPrice: 200, Confirmed: true,
		CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, env.db.Create(&models.TutorBooking{
		TutorID: tutor.ID, UserID: 2, DurationHours: 1, NumberOfDays: 1,
		StartTime: time.Now(), TotalPrice: 100, Confirmed: true,
		CreatedAt: time.Now(),
	}).Error)

	h := &TutorHandler{DB: env.db}

	rec, c := env.doJSON(http.MethodGet, "/api/v1/bookings", nil, 1, "user")
	require.NoError(t, h.MyBookings(c))

	var bookings []models.TutorBooking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings, 2)
	require.Equal(t, float64(200), bookings[0].TotalPrice)
}

func TestListTutors(t *testing.T) {
	env := newTestEnv(t)
	seedTutor(env, 100)
	seedTutor(env, 200)

	h := &TutorHandler{DB: env.db}

	rec, c := env.doJSON(http.MethodGet, "/api/v1/tutors", nil, 0, "")
	require.NoError(t, h.ListTutors(c))

	var tutors []models.Tutor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tutors))
	require.Len(t, tutors, 2)
	require.Equal(t, uint(2), tutors[0].ID)
}
