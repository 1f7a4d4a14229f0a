package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is identified by its plate. It is shared by reference between
// cases and survives case deletion.
type Vehicle struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Plate string  `gorm:"size:20;not null;uniqueIndex" json:"plate"`
	Vin   *string `gorm:"size:50" json:"vin,omitempty"`
	Brand *string `gorm:"size:150" json:"brand,omitempty"`
	Model *string `gorm:"size:150" json:"model,omitempty"`
	Color *string `gorm:"size:50" json:"color,omitempty"`
	Notes *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
