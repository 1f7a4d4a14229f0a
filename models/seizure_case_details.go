package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle type constants
const (
	VehicleTypeCiclomotori = "ciclomotori"
	VehicleTypeMotocicli   = "motocicli"
	VehicleTypeAutovetture = "autovetture"
	VehicleTypeAutocarri   = "autocarri"
)

// Intervention type constants
const (
	InterventionTypeDiurno   = "diurno"
	InterventionTypeNotturno = "notturno"
	InterventionTypeFestivo  = "festivo"
)

// SeizureCaseDetails holds the seizure-specific fields of a case.
// Owned 1:1 by its Case: created, updated and deleted together with it.
type SeizureCaseDetails struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;uniqueIndex" json:"case_id"`

	SeizureDate     *time.Time `json:"seizure_date,omitempty"`
	EnforcementBody *string    `gorm:"size:250" json:"enforcement_body,omitempty"`
	OffenderDetails *string    `gorm:"type:text" json:"offender_details,omitempty"`

	PlateNumber       *string `gorm:"size:20" json:"plate_number,omitempty"`
	VinNumber         *string `gorm:"size:50" json:"vin_number,omitempty"`
	VehicleType       *string `gorm:"size:30" json:"vehicle_type,omitempty"`
	VehicleBrandModel *string `gorm:"size:150" json:"vehicle_brand_model,omitempty"`
	VehicleWeight     *string `gorm:"size:50" json:"vehicle_weight,omitempty"`

	InterventionType *string  `gorm:"size:30" json:"intervention_type,omitempty"`
	CarrierOne       *string  `gorm:"size:150" json:"carrier_one,omitempty"`
	CarrierOneKm     *float64 `json:"carrier_one_km,omitempty"`
	CarrierTwo       *string  `gorm:"size:150" json:"carrier_two,omitempty"`
	CarrierTwoKm     *float64 `json:"carrier_two_km,omitempty"`

	EntryDate       *time.Time `json:"entry_date,omitempty"`
	EntryReason     *string    `gorm:"size:250" json:"entry_reason,omitempty"`
	ExitDate        *time.Time `json:"exit_date,omitempty"`
	ExitReason      *string    `gorm:"size:250" json:"exit_reason,omitempty"`
	CustodyDuration *string    `gorm:"size:100" json:"custody_duration,omitempty"`
	CustodyCosts    *string    `gorm:"size:100" json:"custody_costs,omitempty"`

	ProcedureNumber     *string    `gorm:"size:100" json:"procedure_number,omitempty"`
	DestinationOffice   *string    `gorm:"size:250" json:"destination_office,omitempty"`
	DestinationOfficeID *string    `gorm:"type:uuid" json:"destination_office_id,omitempty"`
	RequestDate         *time.Time `json:"request_date,omitempty"`

	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	InvoiceNumber *string    `gorm:"size:100" json:"invoice_number,omitempty"`
	InvoiceAmount *string    `gorm:"size:100" json:"invoice_amount,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *SeizureCaseDetails) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (SeizureCaseDetails) TableName() string {
	return "seizure_case_details"
}

// IsValidVehicleType checks if the vehicle type is one of the accepted options
func IsValidVehicleType(value string) bool {
	switch value {
	case VehicleTypeCiclomotori, VehicleTypeMotocicli, VehicleTypeAutovetture, VehicleTypeAutocarri:
		return true
	}
	return false
}

// IsValidInterventionType checks if the intervention type is one of the accepted options
func IsValidInterventionType(value string) bool {
	switch value {
	case InterventionTypeDiurno, InterventionTypeNotturno, InterventionTypeFestivo:
		return true
	}
	return false
}
