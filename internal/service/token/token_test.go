package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sportsstore/internal/config"
	"sportsstore/internal/models"
)

func newTestService(t *testing.T) *TokenService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func TestRotateToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "user"))

	newAccess, newRefresh, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEqual(t, refresh, newRefresh)

	var old models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", refresh).First(&old).Error)
	require.True(t, old.Revoked)

	var fresh models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", newRefresh).First(&fresh).Error)
	require.False(t, fresh.Revoked)
}

func TestRotateRevokedTokenRejected(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "user"))
	require.NoError(t, svc.RevokeRefresh(refresh))

	_, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestRotateRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)

	_, _, err = svc.RotateToken(access)
	require.Error(t, err)
}

func TestValidateRefreshUnknownToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)

	_, err = ValidateRefresh(refresh, svc.RefreshSecret, svc.DB)
	require.Error(t, err)
}

func TestAutoRefreshMiddlewareSetsUserContext(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(7, "admin", svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		called = true
		require.Equal(t, uint(7), c.Get("userID"))
		require.Equal(t, "admin", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.True(t, called)
}

func TestAutoRefreshMiddlewareRejectsMissingCookies(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAutoRefreshMiddlewareRotatesExpiredAccess(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "user"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		require.Equal(t, uint(7), c.Get("userID"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])

	var old models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", refresh).First(&old).Error)
	require.True(t, old.Revoked)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(7, "user", svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := svc.AutoRefreshMiddlewareAdmin(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}
