package services

import (
	"gestionale_veicoli_go/models"
	"strconv"
	"strings"
	"time"
)

// SeizureCaseForm is the flat data-entry payload for creating or updating a
// seizure case. Every field arrives as free text from the form; dates use
// the YYYY-MM-DD format and are normalized to nil when empty.
type SeizureCaseForm struct {
	SeizureDate     string `json:"seizure_date"`
	EnforcementBody string `json:"enforcement_body"`
	OffenderDetails string `json:"offender_details"`

	PlateNumber       string `json:"plate_number"`
	VinNumber         string `json:"vin_number"`
	VehicleType       string `json:"vehicle_type"`
	VehicleBrandModel string `json:"vehicle_brand_model"`
	VehicleWeight     string `json:"vehicle_weight"`

	InterventionType string `json:"intervention_type"`
	CarrierOne       string `json:"carrier_one"`
	CarrierOneKm     string `json:"carrier_one_km"`
	CarrierTwo       string `json:"carrier_two"`
	CarrierTwoKm     string `json:"carrier_two_km"`

	EntryDate       string `json:"entry_date"`
	EntryReason     string `json:"entry_reason"`
	ExitDate        string `json:"exit_date"`
	ExitReason      string `json:"exit_reason"`
	CustodyDuration string `json:"custody_duration"`
	CustodyCosts    string `json:"custody_costs"`

	ProcedureNumber     string  `json:"procedure_number"`
	DestinationOfficeID *string `json:"destination_office_id"`
	DestinationOffice   string  `json:"destination_office"`
	RequestDate         string  `json:"request_date"`

	InvoiceDate   string `json:"invoice_date"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceAmount string `json:"invoice_amount"`

	Notes          string `json:"notes"`
	BoardKey       string `json:"board_key"`
	InternalNumber string `json:"internal_number"`
}

// NormalizedPlate returns the plate trimmed and uppercased
func (f *SeizureCaseForm) NormalizedPlate() string {
	return strings.ToUpper(strings.TrimSpace(f.PlateNumber))
}

// NormalizedInternalNumber returns the internal number trimmed
func (f *SeizureCaseForm) NormalizedInternalNumber() string {
	return strings.TrimSpace(f.InternalNumber)
}

// normalizeString maps blank input to nil
func normalizeString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeDate parses a YYYY-MM-DD form value, nil when blank or malformed
func normalizeDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

// parseNumberOrNil parses a decimal form value, accepting the Italian comma
// separator, nil when blank or not a number.
func parseNumberOrNil(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// normalizeVehicleType maps input to a valid vehicle type option or nil
func normalizeVehicleType(value string) *string {
	trimmed := strings.TrimSpace(value)
	if !models.IsValidVehicleType(trimmed) {
		return nil
	}
	return &trimmed
}

// normalizeInterventionType maps input to a valid intervention option or nil
func normalizeInterventionType(value string) *string {
	trimmed := strings.TrimSpace(value)
	if !models.IsValidInterventionType(trimmed) {
		return nil
	}
	return &trimmed
}
