package handlers

import (
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type casePayload struct {
	CategoryKey    string                   `json:"category_key"`
	SubCategoryKey string                   `json:"sub_category_key"`
	Form           services.SeizureCaseForm `json:"form"`
}

type idListPayload struct {
	IDs []string `json:"ids"`
}

// GetCaseBoardHandler returns the current board snapshot
func GetCaseBoardHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.Board.Snapshot())
}

// RefreshCaseBoardHandler performs a foreground reload of the board.
// Unlike the background refresh, a failure here is reported to the caller.
func RefreshCaseBoardHandler(c echo.Context) error {
	if err := services.Board.Reload(db.DB); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, services.Board.Snapshot())
}

// SelectCaseHandler moves the board selection to the given case
func SelectCaseHandler(c echo.Context) error {
	services.Board.Select(c.Param("id"))
	return c.JSON(http.StatusOK, services.Board.Snapshot())
}

// ToggleCaseCheckedHandler flips the multi-select mark on a case
func ToggleCaseCheckedHandler(c echo.Context) error {
	services.Board.ToggleChecked(c.Param("id"))
	return c.JSON(http.StatusOK, services.Board.Snapshot())
}

// GetCaseHandler returns a single case with its relations
func GetCaseHandler(c echo.Context) error {
	record, err := services.GetCase(db.DB, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// CreateCaseHandler creates a case from the data-entry form
func CreateCaseHandler(c echo.Context) error {
	var payload casePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	ctx := services.DeriveProcedureMeta(payload.CategoryKey, payload.SubCategoryKey)
	created, err := services.CreateCaseFromForm(db.DB, &payload.Form, ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := services.Board.Reload(db.DB); err != nil {
		return respondServiceError(c, err)
	}
	services.Board.Select(created.ID)

	return c.JSON(http.StatusCreated, created)
}

// UpdateCaseHandler re-runs the composite write for an existing case
func UpdateCaseHandler(c echo.Context) error {
	caseID := c.Param("id")

	existing, err := services.GetCase(db.DB, caseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var payload casePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	ctx := services.DeriveProcedureMeta(payload.CategoryKey, payload.SubCategoryKey)
	prior := services.PriorCaseContext{
		VehicleID:  existing.VehicleID,
		CaseNumber: existing.CaseNumber,
	}

	updated, err := services.UpdateCaseFromForm(db.DB, caseID, &payload.Form, ctx, prior)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := services.Board.Reload(db.DB); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteCasesHandler removes the given cases and their dependent rows
func DeleteCasesHandler(c echo.Context) error {
	var payload idListPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	if err := services.DeleteCases(db.DB, payload.IDs); err != nil {
		return respondServiceError(c, err)
	}

	if err := services.Board.Reload(db.DB); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, services.Board.Snapshot())
}

type releasePayload struct {
	Notes string `json:"notes"`
}

// ReleaseCaseHandler marks a case as released and records it in the history
func ReleaseCaseHandler(c echo.Context) error {
	caseID := c.Param("id")

	var payload releasePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	if err := services.MarkCaseReleased(db.DB, caseID, payload.Notes); err != nil {
		return respondServiceError(c, err)
	}

	if err := services.Board.Reload(db.DB); err != nil {
		return respondServiceError(c, err)
	}

	record, err := services.GetCase(db.DB, caseID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// GetCaseHistoryHandler returns the status history of a case, oldest first
func GetCaseHistoryHandler(c echo.Context) error {
	history, err := services.GetCaseHistory(db.DB, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// GetCaseCategoriesHandler returns the static category tree for the form
func GetCaseCategoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.CaseCategories)
}
