package handlers

import (
	"bytes"
	"encoding/json"
	"gestionale_veicoli_go/models"
	"gestionale_veicoli_go/services"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func caseBody(t *testing.T, internalNumber, plate string) *bytes.Buffer {
	payload := casePayload{
		CategoryKey:    services.DefaultCategoryKey,
		SubCategoryKey: services.DefaultSubCategoryKey,
		Form: services.SeizureCaseForm{
			InternalNumber:    internalNumber,
			PlateNumber:       plate,
			SeizureDate:       "2024-03-15",
			EnforcementBody:   "Polizia Locale",
			OffenderDetails:   "Rossi Mario, via Roma 1",
			VehicleType:       models.VehicleTypeAutovetture,
			VehicleBrandModel: "Fiat Panda",
			InterventionType:  models.InterventionTypeDiurno,
			Notes:             "sequestro art. 8",
		},
	}

	encoded, err := json.Marshal(payload)
	assert.NoError(t, err)
	return bytes.NewBuffer(encoded)
}

func createCaseViaHandler(t *testing.T, internalNumber, plate string) *models.Case {
	_, c, rec := setupEcho(http.MethodPost, "/api/cases", caseBody(t, internalNumber, plate))
	assert.NoError(t, CreateCaseHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return &created
}

func TestCreateCaseHandler(t *testing.T) {
	t.Run("Creates and selects the new case", func(t *testing.T) {
		setupTestDB(t)

		created := createCaseViaHandler(t, "101", "AB123CD")
		assert.Equal(t, models.CaseStatusOpen, created.Status)
		assert.Equal(t, "101", *created.InternalNumber)

		snapshot := services.Board.Snapshot()
		assert.Len(t, snapshot.Cases, 1)
		assert.NotNil(t, snapshot.SelectedID)
		assert.Equal(t, created.ID, *snapshot.SelectedID)
	})

	t.Run("Duplicate internal number", func(t *testing.T) {
		setupTestDB(t)
		createCaseViaHandler(t, "101", "AB123CD")

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", caseBody(t, "101", "XY987ZW"))
		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Esiste già una pratica")
	})

	t.Run("Missing required fields", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", caseBody(t, "", ""))
		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUpdateCaseHandler(t *testing.T) {
	setupTestDB(t)
	created := createCaseViaHandler(t, "101", "AB123CD")

	_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+created.ID, caseBody(t, "102", "AB123CD"))
	c.SetParamNames("id")
	c.SetParamValues(created.ID)

	assert.NoError(t, UpdateCaseHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "102", *updated.InternalNumber)
}

func TestGetCaseHandlerNotFound(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	assert.NoError(t, GetCaseHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCasesHandler(t *testing.T) {
	database := setupTestDB(t)
	created := createCaseViaHandler(t, "101", "AB123CD")

	body := `{"ids":["` + created.ID + `"]}`
	_, c, rec := setupEcho(http.MethodDelete, "/api/cases", strings.NewReader(body))

	assert.NoError(t, DeleteCasesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot services.BoardSnapshot
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Empty(t, snapshot.Cases)

	err := database.First(&models.Case{}, "id = ?", created.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReleaseCaseHandler(t *testing.T) {
	setupTestDB(t)
	created := createCaseViaHandler(t, "101", "AB123CD")

	body := `{"notes":"consegnato al proprietario"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+created.ID+"/release", strings.NewReader(body))
	c.SetParamNames("id")
	c.SetParamValues(created.ID)

	assert.NoError(t, ReleaseCaseHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var released models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &released))
	assert.Equal(t, models.CaseStatusReleased, released.Status)
}

func TestCaseBoardHandlers(t *testing.T) {
	setupTestDB(t)
	first := createCaseViaHandler(t, "101", "AB123CD")
	second := createCaseViaHandler(t, "102", "XY987ZW")

	t.Run("Snapshot", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
		assert.NoError(t, GetCaseBoardHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var snapshot services.BoardSnapshot
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Len(t, snapshot.Cases, 2)
	})

	t.Run("Select", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+first.ID+"/select", nil)
		c.SetParamNames("id")
		c.SetParamValues(first.ID)

		assert.NoError(t, SelectCaseHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var snapshot services.BoardSnapshot
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, first.ID, *snapshot.SelectedID)
	})

	t.Run("Toggle checked", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+second.ID+"/check", nil)
		c.SetParamNames("id")
		c.SetParamValues(second.ID)

		assert.NoError(t, ToggleCaseCheckedHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var snapshot services.BoardSnapshot
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, []string{second.ID}, snapshot.CheckedIDs)
	})
}

func TestGetCaseHistoryHandler(t *testing.T) {
	setupTestDB(t)
	created := createCaseViaHandler(t, "101", "AB123CD")

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+created.ID+"/history", nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)

	assert.NoError(t, GetCaseHistoryHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pratica creata")
}

func TestGetCaseCategoriesHandler(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/categories", nil)
	assert.NoError(t, GetCaseCategoriesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SEQUESTRI ART. 8")
}
