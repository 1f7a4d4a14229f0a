package handlers

import (
	"gestionale_veicoli_go/services"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondServiceError maps service-layer errors onto HTTP responses:
// validation problems become 422, conflicts 409, missing records 404.
// Anything else is logged and hidden behind a generic 500.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case services.IsValidation(err):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case services.IsConflict(err):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case services.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("Unhandled service error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Errore interno del server"})
	}
}
