package models

import (
	"time"
)

// CaseEditLock is a short-lived advisory claim binding a case to the user
// editing it. The primary key on CaseID is the actual race resolution
// mechanism: a second insert for the same case is rejected by the store.
// Expired rows are inert and treated as absent by every reader.
type CaseEditLock struct {
	CaseID    string    `gorm:"type:uuid;primarykey" json:"case_id"`
	LockedBy  string    `gorm:"type:uuid;not null" json:"locked_by"`
	LockedAt  time.Time `gorm:"not null;autoCreateTime" json:"locked_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Relationships
	Holder *User `gorm:"foreignKey:LockedBy" json:"-"`
}

// TableName specifies the table name
func (CaseEditLock) TableName() string {
	return "case_edit_locks"
}

// IsExpired checks if the lock TTL has passed
func (l *CaseEditLock) IsExpired() bool {
	return !time.Now().Before(l.ExpiresAt)
}
