package handlers

import (
	"errors"
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/middleware"
	"gestionale_veicoli_go/models"
	"gestionale_veicoli_go/services"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type userPayload struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

// GetUsersHandler lists all accounts (admin only)
func GetUsersHandler(c echo.Context) error {
	var users []models.User
	if err := db.DB.Order("username ASC").Find(&users).Error; err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUserHandler returns one account
func GetUserHandler(c echo.Context) error {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Utente non trovato"})
		}
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUserHandler registers a new account (admin only)
func CreateUserHandler(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username e password sono obbligatori"})
	}
	if payload.Role != "" && !models.IsValidRole(payload.Role) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Ruolo non valido"})
	}
	if err := services.ValidatePassword(payload.Password); err != nil {
		return respondServiceError(c, err)
	}

	hash, err := services.HashPassword(payload.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	user := models.User{
		Username:    username,
		DisplayName: payload.DisplayName,
		Password:    hash,
		Role:        payload.Role,
		IsActive:    true,
	}
	if user.Role == "" {
		user.Role = models.RoleOperatore
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Username già in uso"})
		}
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUserHandler edits an account (admin only)
func UpdateUserHandler(c echo.Context) error {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Utente non trovato"})
		}
		return respondServiceError(c, err)
	}

	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	updates := map[string]interface{}{}
	if username := strings.TrimSpace(payload.Username); username != "" {
		updates["username"] = username
	}
	if payload.DisplayName != nil {
		updates["display_name"] = payload.DisplayName
	}
	if payload.Role != "" {
		if !models.IsValidRole(payload.Role) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Ruolo non valido"})
		}
		updates["role"] = payload.Role
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if payload.Password != "" {
		if err := services.ValidatePassword(payload.Password); err != nil {
			return respondServiceError(c, err)
		}
		hash, err := services.HashPassword(payload.Password)
		if err != nil {
			return respondServiceError(c, err)
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.JSON(http.StatusConflict, map[string]string{"error": "Username già in uso"})
			}
			return respondServiceError(c, err)
		}
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUserHandler removes an account (admin only). An admin cannot delete
// their own account.
func DeleteUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)
	targetID := c.Param("id")

	if current != nil && current.ID == targetID {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Non puoi eliminare il tuo account"})
	}

	result := db.DB.Delete(&models.User{}, "id = ?", targetID)
	if result.Error != nil {
		return respondServiceError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Utente non trovato"})
	}
	return c.NoContent(http.StatusNoContent)
}
