package handlers

import (
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/middleware"
	"gestionale_veicoli_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CheckCaseLockHandler reports whether a case is currently locked and by whom
func CheckCaseLockHandler(c echo.Context) error {
	lock, err := services.CheckCaseLock(db.DB, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if lock == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"locked": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locked": true,
		"lock":   lock,
		"holder": lock.HolderLabel(),
	})
}

// AcquireCaseLockHandler claims the edit lock on a case for the current user
func AcquireCaseLockHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Non autenticato")
	}

	lock, err := services.AcquireCaseLock(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lock)
}

// ReleaseCaseLockHandler releases the edit lock on a case. Releasing a lock
// that is already gone succeeds.
func ReleaseCaseLockHandler(c echo.Context) error {
	if err := services.ReleaseCaseLock(db.DB, c.Param("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
