package handlers

import (
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListDestinationOfficesHandler returns the office registry sorted by name
func ListDestinationOfficesHandler(c echo.Context) error {
	offices, err := services.ListDestinationOffices(db.DB)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, offices)
}

// CreateDestinationOfficeHandler adds an office to the registry
func CreateDestinationOfficeHandler(c echo.Context) error {
	var form services.DestinationOfficeForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	office, err := services.CreateDestinationOffice(db.DB, &form)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, office)
}

// UpdateDestinationOfficeHandler edits a registry entry
func UpdateDestinationOfficeHandler(c echo.Context) error {
	var form services.DestinationOfficeForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	office, err := services.UpdateDestinationOffice(db.DB, c.Param("id"), &form)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, office)
}

// DeleteDestinationOfficesHandler removes registry entries. Offices still
// referenced by cases are refused with a conflict.
func DeleteDestinationOfficesHandler(c echo.Context) error {
	var payload idListPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	if err := services.DeleteDestinationOffices(db.DB, payload.IDs); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
