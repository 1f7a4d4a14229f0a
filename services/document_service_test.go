package services

import (
	"gestionale_veicoli_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func sampleReleasePayload() *ReleasePrintPayload {
	return &ReleasePrintPayload{
		ProcedureNumber: "123/2024",
		OrderedBy:       "Dott. Bianchi",
		OrderingOffice:  "Prefettura di Napoli",
		OrderDate:       "01/03/2024",
		PresenceTime:    "10:30",
		RecipientName:   "Mario Rossi",
		BirthPlace:      "Napoli",
		BirthDate:       "01/01/1980",
		Residence:       "Napoli",
		Street:          "Via Roma 1",
		VehicleBrand:    "Fiat Panda",
		VehiclePlate:    "AB123CD",
		VehicleVin:      "ZFA1234567890",
		IssuePlace:      "Napoli",
		IssueDate:       "15/03/2024",
	}
}

func TestRenderReleaseDocument(t *testing.T) {
	html, err := RenderReleaseDocument(sampleReleasePayload())
	assert.NoError(t, err)

	assert.Contains(t, html, "DICHIARAZIONE DI CONSEGNA VEICOLO")
	assert.Contains(t, html, "123/2024")
	assert.Contains(t, html, "Mario Rossi")
	assert.Contains(t, html, "AB123CD")
	assert.Contains(t, html, "Il Custode")
}

func TestRenderReleaseDocumentStripsMarkup(t *testing.T) {
	payload := sampleReleasePayload()
	payload.RecipientName = `<script>alert("x")</script>Mario Rossi`

	html, err := RenderReleaseDocument(payload)
	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Mario Rossi")
}

func reportFixture() []models.Case {
	seized := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	number := "101"
	plate := "AB123CD"
	brand := "Fiat Panda"
	return []models.Case{
		{
			ID:             "case-1",
			CaseNumber:     "123/2024",
			InternalNumber: &number,
			ProcedureType:  models.ProcedureTypeAmministrativo,
			Status:         models.CaseStatusOpen,
			Vehicle:        &models.Vehicle{ID: "v1", Plate: plate},
			Details: &models.SeizureCaseDetails{
				CaseID:            "case-1",
				PlateNumber:       &plate,
				VehicleBrandModel: &brand,
				SeizureDate:       &seized,
			},
		},
		{
			ID:            "case-2",
			CaseNumber:    "124/2024",
			ProcedureType: models.ProcedureTypeAmministrativo,
			Status:        models.CaseStatusReleased,
		},
	}
}

func TestRenderReportDocument(t *testing.T) {
	html, err := RenderReportDocument(reportFixture(), DefaultReportColumns())
	assert.NoError(t, err)

	assert.Contains(t, html, "Report mezzi con tutti i titoli")
	assert.Contains(t, html, "Pratiche incluse: 2")
	assert.Contains(t, html, "AB123CD")
	assert.Contains(t, html, "Fiat Panda")
	assert.Contains(t, html, "15/03/2024")
	assert.Contains(t, html, models.CaseStatusReleased)
}

func TestExportCasesExcel(t *testing.T) {
	buf, err := ExportCasesExcel(reportFixture(), DefaultReportColumns())
	assert.NoError(t, err)
	assert.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Pratiche")
	assert.Contains(t, sheets, "Riepilogo")

	header, err := f.GetCellValue("Pratiche", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "N° Pratica", header)

	firstNumber, err := f.GetCellValue("Pratiche", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "101", firstNumber)

	plate, err := f.GetCellValue("Pratiche", "F2")
	assert.NoError(t, err)
	assert.Equal(t, "AB123CD", plate)

	rows, err := f.GetRows("Pratiche")
	assert.NoError(t, err)
	assert.Len(t, rows, 3) // header + two cases
}
