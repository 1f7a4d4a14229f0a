package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusOpen     = "aperto"
	CaseStatusReleased = "rilasciato"
	CaseStatusArchived = "archiviato"
)

// Procedure type constants
const (
	ProcedureTypeAmministrativo = "amministrativo"
	ProcedureTypePenale         = "penale"
)

// Case represents a vehicle seizure/administrative procedure record
// (pratica). Deletes are hard deletes: a soft-deleted row would keep its
// (internal_number, procedure_type, subcategory) slot in the unique index
// and block the number from ever being reused.
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Human identifiers
	CaseNumber     string  `gorm:"not null" json:"case_number"`
	InternalNumber *string `gorm:"size:100;uniqueIndex:idx_case_scope_internal" json:"internal_number,omitempty"`
	BoardKey       *string `gorm:"size:100" json:"board_key,omitempty"`

	// Classification scope: internal number is unique within (procedure_type, subcategory)
	ProcedureType string  `gorm:"not null;default:amministrativo;uniqueIndex:idx_case_scope_internal" json:"procedure_type"`
	Subcategory   *string `gorm:"size:150;uniqueIndex:idx_case_scope_internal" json:"subcategory,omitempty"`

	// Status and lifecycle
	Status   string     `gorm:"not null;default:aperto;index" json:"status"`
	OpenedAt time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	Description *string `gorm:"type:text" json:"description,omitempty"`
	Location    *string `gorm:"size:250" json:"location,omitempty"`

	// Vehicle relationship
	VehicleID *string  `gorm:"type:uuid;index" json:"vehicle_id,omitempty"`
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	// Destination office relationship (nullable, no cascade)
	DestinationOfficeID *string            `gorm:"type:uuid;index" json:"destination_office_id,omitempty"`
	DestinationOffice   *DestinationOffice `gorm:"foreignKey:DestinationOfficeID" json:"destination_office,omitempty"`

	// Relationships
	Details *SeizureCaseDetails `gorm:"foreignKey:CaseID" json:"seizure_case_details,omitempty"`
	History []CaseStatusHistory `gorm:"foreignKey:CaseID" json:"history,omitempty"`
}

// BeforeCreate hook to generate UUID and set OpenedAt
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.OpenedAt.IsZero() {
		c.OpenedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsOpen checks if the case is open
func (c *Case) IsOpen() bool {
	return c.Status == CaseStatusOpen
}

// IsReleased checks if the vehicle has been released
func (c *Case) IsReleased() bool {
	return c.Status == CaseStatusReleased
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusOpen, CaseStatusReleased, CaseStatusArchived:
		return true
	}
	return false
}
