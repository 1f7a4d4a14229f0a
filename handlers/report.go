package handlers

import (
	"bytes"
	"fmt"
	"gestionale_veicoli_go/config"
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/services"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ExportCasesExcelHandler streams the case list as an Excel workbook
func ExportCasesExcelHandler(c echo.Context) error {
	cases, err := services.FetchCases(db.DB)
	if err != nil {
		return respondServiceError(c, err)
	}
	services.SortCases(cases)

	buf, err := services.ExportCasesExcel(cases, services.DefaultReportColumns())
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("report_pratiche_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCasesPDFHandler renders the landscape case report as a PDF
func ExportCasesPDFHandler(c echo.Context) error {
	cases, err := services.FetchCases(db.DB)
	if err != nil {
		return respondServiceError(c, err)
	}
	services.SortCases(cases)

	html, err := services.RenderReportDocument(cases, services.DefaultReportColumns())
	if err != nil {
		return respondServiceError(c, err)
	}

	cfg := c.Get("config").(*config.Config)
	pdf, err := services.GeneratePDF(cfg, html, services.ReportPDFOptions())
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("report_pratiche_%s.pdf", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// GenerateReleaseDocumentHandler renders the vehicle hand-over sheet as a
// PDF and archives a copy in storage. An archive failure is logged but does
// not block the download.
func GenerateReleaseDocumentHandler(c echo.Context) error {
	caseID := c.Param("id")
	record, err := services.GetCase(db.DB, caseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var payload services.ReleasePrintPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	html, err := services.RenderReleaseDocument(&payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	cfg := c.Get("config").(*config.Config)
	pdf, err := services.GeneratePDF(cfg, html, services.ReleasePDFOptions())
	if err != nil {
		return respondServiceError(c, err)
	}

	key := fmt.Sprintf("rilasci/%s/%s.pdf", record.ID, time.Now().Format("20060102_150405"))
	if services.Storage != nil {
		ctx := c.Request().Context()
		if _, err := services.Storage.UploadReader(ctx, bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf))); err != nil {
			log.Printf("Failed to archive release document for case %s: %v", record.ID, err)
		}
	}

	filename := fmt.Sprintf("rilascio_%s.pdf", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
