package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sportsstore/internal/cart"
	"sportsstore/internal/config"
	"sportsstore/internal/hash"
	"sportsstore/internal/models"
)

type testEnv struct {
	t     *testing.T
	e     *echo.Echo
	db    *gorm.DB
	carts *cart.Store
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &testEnv{t: t, e: echo.New(), db: db, carts: cart.NewStore()}
}

// doJSON builds a request-scoped echo context. A non-zero userID plays the
// role of the token middleware having authenticated the request.
func (env *testEnv) doJSON(method, target string, body any, userID uint, role string) (*httptest.ResponseRecorder, echo.Context) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", role)
	}
	return rec, c
}

func (env *testEnv) createUser(username, password, role string) models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.t, err)
	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.t, env.db.Create(&user).Error)
	return user
}

func (env *testEnv) createProduct(p models.Product) models.Product {
	require.NoError(env.t, env.db.Create(&p).Error)
	return p
}

func httpErr(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he
}
