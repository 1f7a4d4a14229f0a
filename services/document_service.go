package services

import (
	"bytes"
	"fmt"
	"gestionale_veicoli_go/models"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// ReleasePrintPayload carries the data of the vehicle hand-over sheet
// (dichiarazione di consegna veicolo dissequestrato).
type ReleasePrintPayload struct {
	ProcedureNumber string `json:"procedure_number"`
	OrderedBy       string `json:"ordered_by"`
	OrderingOffice  string `json:"ordering_office"`
	OrderDate       string `json:"order_date"`
	PresenceTime    string `json:"presence_time"`
	RecipientName   string `json:"recipient_name"`
	BirthPlace      string `json:"birth_place"`
	BirthDate       string `json:"birth_date"`
	Residence       string `json:"residence"`
	Street          string `json:"street"`
	VehicleBrand    string `json:"vehicle_brand"`
	VehiclePlate    string `json:"vehicle_plate"`
	VehicleVin      string `json:"vehicle_vin"`
	IssuePlace      string `json:"issue_place"`
	IssueDate       string `json:"issue_date"`
}

// ReportColumn describes one column of the printable case report
type ReportColumn struct {
	Key      string
	Label    string
	Accessor func(record *models.Case) string
}

// sanitizer strips any markup from free-text fields before they reach a
// printable document.
var sanitizer = bluemonday.StrictPolicy()

func clean(value string) string {
	return sanitizer.Sanitize(value)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("02/01/2006")
}

var releaseTemplate = template.Must(template.New("release").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8" />
<title>Foglio rilascio veicolo</title>
<style>
  body { font-family: "Segoe UI", Arial, sans-serif; color: #0f172a; background: #ffffff; margin: 0; }
  .page { max-width: 720px; margin: 0 auto; line-height: 1.6; font-size: 14px; }
  h1 { font-size: 22px; text-align: center; margin: 0 0 18px; letter-spacing: 0.02em; }
  p { margin: 0 0 14px; }
  .note { font-style: italic; color: #475569; margin-top: -6px; margin-bottom: 18px; }
  ul { margin: 0 0 18px 22px; padding: 0; }
  li { margin: 4px 0; }
  strong { color: #0f172a; }
  .location { font-size: 15px; margin: 32px 0 42px; }
  .signature-row { display: grid; grid-template-columns: repeat(2, minmax(0, 1fr)); gap: 42px; }
  .signature { text-align: center; }
  .signature span { display: block; font-weight: 600; margin-bottom: 44px; }
  .signature .line { height: 1px; width: 100%; background: #94a3b8; }
</style>
</head>
<body>
<div class="page">
  <h1>DICHIARAZIONE DI CONSEGNA VEICOLO O BENE DISSEQUESTRATO</h1>

  <p>
    Dovendo dar seguito alle disposizioni relative al
    <strong>Procedimento n. {{.ProcedureNumber}}</strong>, così come disposto da
    <strong>{{.OrderedBy}}</strong> di <strong>{{.OrderingOffice}}</strong> in data
    <strong>{{.OrderDate}}</strong>.
  </p>

  <p>
    È avuta la presenza, alle ore <strong>{{.PresenceTime}}</strong> di oggi, del Sig.
    <strong>{{.RecipientName}}</strong>, nato a <strong>{{.BirthPlace}}</strong> il
    <strong>{{.BirthDate}}</strong>, residente a <strong>{{.Residence}}</strong>,
    via <strong>{{.Street}}</strong>.
  </p>

  <p class="note">
    (Persona che materialmente presenta/consegna l'originale del verbale di dissequestro, come
    proprietario e/o delegato.)
  </p>

  <p>Con la presente si consegna il veicolo:</p>
  <ul>
    <li><strong>Marca:</strong> {{.VehicleBrand}}</li>
    <li><strong>Targa:</strong> {{.VehiclePlate}}</li>
    <li><strong>Telaio:</strong> {{.VehicleVin}}</li>
  </ul>

  <p>
    Il suddetto Sig. <strong>{{.RecipientName}}</strong>, contestualmente prende visione che il bene/veicolo
    gli viene consegnato nelle stesse condizioni in cui versava al momento del sequestro e pertanto
    sottoscrive, esonerando il custode da qualsiasi responsabilità futura.
  </p>

  <p class="location"><strong>{{.IssuePlace}}, {{.IssueDate}}</strong></p>

  <div class="signature-row">
    <div class="signature">
      <span>Il Proprietario / Delegato</span>
      <div class="line"></div>
    </div>
    <div class="signature">
      <span>Il Custode</span>
      <div class="line"></div>
    </div>
  </div>
</div>
</body>
</html>`))

// RenderReleaseDocument builds the printable hand-over sheet for a released
// vehicle. Free-text payload fields are sanitized before templating.
func RenderReleaseDocument(payload *ReleasePrintPayload) (string, error) {
	cleaned := *payload
	cleaned.ProcedureNumber = clean(payload.ProcedureNumber)
	cleaned.OrderedBy = clean(payload.OrderedBy)
	cleaned.OrderingOffice = clean(payload.OrderingOffice)
	cleaned.OrderDate = clean(payload.OrderDate)
	cleaned.PresenceTime = clean(payload.PresenceTime)
	cleaned.RecipientName = clean(payload.RecipientName)
	cleaned.BirthPlace = clean(payload.BirthPlace)
	cleaned.BirthDate = clean(payload.BirthDate)
	cleaned.Residence = clean(payload.Residence)
	cleaned.Street = clean(payload.Street)
	cleaned.VehicleBrand = clean(payload.VehicleBrand)
	cleaned.VehiclePlate = clean(payload.VehiclePlate)
	cleaned.VehicleVin = clean(payload.VehicleVin)
	cleaned.IssuePlace = clean(payload.IssuePlace)
	cleaned.IssueDate = clean(payload.IssueDate)

	var buf bytes.Buffer
	if err := releaseTemplate.Execute(&buf, &cleaned); err != nil {
		return "", fmt.Errorf("failed to render release document: %w", err)
	}
	return buf.String(), nil
}

type reportRow struct {
	Cells []string
}

type reportData struct {
	Labels      []string
	Rows        []reportRow
	GeneratedAt string
	Count       int
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8" />
<title>Report mezzi con tutti i titoli</title>
<style>
  body { font-family: "Segoe UI", Arial, sans-serif; color: #0f172a; background: #ffffff; margin: 0; }
  h1 { text-align: center; font-size: 22px; margin: 0 0 6px; }
  p { margin: 0 0 18px; color: #475569; text-align: center; }
  table { width: 100%; border-collapse: collapse; font-size: 10px; table-layout: auto; }
  thead { background: rgba(37, 99, 235, 0.08); }
  th, td { border: 1px solid rgba(148, 163, 184, 0.4); padding: 4px 6px; text-align: left; vertical-align: top; word-wrap: break-word; }
  th { font-size: 10px; text-transform: uppercase; letter-spacing: 0.02em; color: #1e3a8a; white-space: nowrap; }
  td { font-size: 9px; max-width: 120px; }
  tbody tr:nth-child(even) { background: rgba(226, 232, 240, 0.35); }
</style>
</head>
<body>
<h1>Report mezzi con tutti i titoli</h1>
<p>Generato il {{.GeneratedAt}} &bull; Pratiche incluse: {{.Count}}</p>
<table>
  <thead>
    <tr>{{range .Labels}}<th>{{.}}</th>{{end}}</tr>
  </thead>
  <tbody>
    {{range .Rows}}<tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
  </tbody>
</table>
</body>
</html>`))

// RenderReportDocument builds the printable landscape report of the case
// list with the given column set.
func RenderReportDocument(cases []models.Case, columns []ReportColumn) (string, error) {
	data := reportData{
		GeneratedAt: time.Now().Format("02/01/2006 15:04"),
		Count:       len(cases),
	}
	for _, column := range columns {
		data.Labels = append(data.Labels, column.Label)
	}
	for i := range cases {
		row := reportRow{Cells: make([]string, 0, len(columns))}
		for _, column := range columns {
			value := clean(column.Accessor(&cases[i]))
			if value == "" {
				value = "—"
			}
			row.Cells = append(row.Cells, value)
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, &data); err != nil {
		return "", fmt.Errorf("failed to render report document: %w", err)
	}
	return buf.String(), nil
}

// DefaultReportColumns is the standard column set of the case report
func DefaultReportColumns() []ReportColumn {
	return []ReportColumn{
		{Key: "internal_number", Label: "N° Pratica", Accessor: func(r *models.Case) string {
			return deref(r.InternalNumber)
		}},
		{Key: "case_number", Label: "N° Procedimento", Accessor: func(r *models.Case) string {
			return r.CaseNumber
		}},
		{Key: "procedure_type", Label: "Tipo", Accessor: func(r *models.Case) string {
			return r.ProcedureType
		}},
		{Key: "subcategory", Label: "Sottocategoria", Accessor: func(r *models.Case) string {
			return deref(r.Subcategory)
		}},
		{Key: "status", Label: "Stato", Accessor: func(r *models.Case) string {
			return r.Status
		}},
		{Key: "plate", Label: "Targa", Accessor: func(r *models.Case) string {
			if r.Vehicle != nil {
				return r.Vehicle.Plate
			}
			if r.Details != nil {
				return deref(r.Details.PlateNumber)
			}
			return ""
		}},
		{Key: "brand_model", Label: "Marca/Modello", Accessor: func(r *models.Case) string {
			if r.Details != nil && r.Details.VehicleBrandModel != nil {
				return *r.Details.VehicleBrandModel
			}
			if r.Vehicle != nil {
				return deref(r.Vehicle.Brand)
			}
			return ""
		}},
		{Key: "offender", Label: "Trasgressore", Accessor: func(r *models.Case) string {
			if r.Details != nil {
				return deref(r.Details.OffenderDetails)
			}
			return ""
		}},
		{Key: "seizure_date", Label: "Data sequestro", Accessor: func(r *models.Case) string {
			if r.Details != nil {
				return derefDate(r.Details.SeizureDate)
			}
			return ""
		}},
		{Key: "entry_date", Label: "Data entrata", Accessor: func(r *models.Case) string {
			if r.Details != nil {
				return derefDate(r.Details.EntryDate)
			}
			return ""
		}},
		{Key: "exit_date", Label: "Data uscita", Accessor: func(r *models.Case) string {
			if r.Details != nil {
				return derefDate(r.Details.ExitDate)
			}
			return ""
		}},
		{Key: "destination_office", Label: "Ufficio destinatario", Accessor: func(r *models.Case) string {
			if r.DestinationOffice != nil {
				return r.DestinationOffice.Name
			}
			if r.Details != nil {
				return deref(r.Details.DestinationOffice)
			}
			return ""
		}},
		{Key: "invoice", Label: "Fattura", Accessor: func(r *models.Case) string {
			if r.Details == nil {
				return ""
			}
			parts := ""
			if r.Details.InvoiceNumber != nil {
				parts = "N. " + *r.Details.InvoiceNumber
			}
			if r.Details.InvoiceAmount != nil {
				if parts != "" {
					parts += " "
				}
				parts += "Importo " + *r.Details.InvoiceAmount
			}
			return parts
		}},
	}
}
