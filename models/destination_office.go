package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Office type constants
const (
	OfficeTypePersonaFisica    = "persona_fisica"
	OfficeTypePersonaGiuridica = "persona_giuridica"
)

// DestinationOffice is a registry entry for the recipient of a released
// vehicle: either a legal entity or a natural person.
type DestinationOffice struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OfficeType string  `gorm:"size:30;not null" json:"office_type"`
	Name       string  `gorm:"size:250;not null" json:"name"`
	TaxCode    *string `gorm:"size:30" json:"tax_code,omitempty"`
	VatNumber  *string `gorm:"size:20" json:"vat_number,omitempty"`

	Address    *string `gorm:"size:250" json:"address,omitempty"`
	City       *string `gorm:"size:150" json:"city,omitempty"`
	Province   *string `gorm:"size:5" json:"province,omitempty"`
	PostalCode *string `gorm:"size:10" json:"postal_code,omitempty"`
	Phone      *string `gorm:"size:30" json:"phone,omitempty"`
	Email      *string `gorm:"size:250" json:"email,omitempty"`
	Pec        *string `gorm:"size:250" json:"pec,omitempty"`
	Notes      *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (o *DestinationOffice) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (DestinationOffice) TableName() string {
	return "destination_offices"
}

// IsNaturalPerson reports whether the office is a natural person entry
func (o *DestinationOffice) IsNaturalPerson() bool {
	return o.OfficeType == OfficeTypePersonaFisica
}

// IsValidOfficeType checks if the office type is valid
func IsValidOfficeType(value string) bool {
	return value == OfficeTypePersonaFisica || value == OfficeTypePersonaGiuridica
}
