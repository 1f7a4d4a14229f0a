package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseStatusHistory records every status transition of a case
type CaseStatusHistory struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID string  `gorm:"type:uuid;not null;index" json:"case_id"`
	Status string  `gorm:"not null" json:"status"`
	Notes  *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (h *CaseStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (CaseStatusHistory) TableName() string {
	return "case_status_history"
}
