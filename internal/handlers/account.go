package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/models"
)

type AccountHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func (h *AccountHandler) Profile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// EditProfile accepts a multipart form: full_name, address, phone_number,
// birth_date (2006-01-02) and an optional avatar file. Avatars land in
// UploadDir under a fresh uuid plus the original extension.
func (h *AccountHandler) EditProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if v := c.FormValue("full_name"); v != "" {
		user.FullName = v
	}
	if v := c.FormValue("address"); v != "" {
		user.Address = v
	}
	if v := c.FormValue("phone_number"); v != "" {
		user.PhoneNumber = v
	}
	if v := c.FormValue("birth_date"); v != "" {
		bd, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid birth_date")
		}
		user.BirthDate = &bd
	}

	if file, err := c.FormFile("avatar"); err == nil && file.Size > 0 {
		url, err := h.saveAvatar(file)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user.AvatarURL = url
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) saveAvatar(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
