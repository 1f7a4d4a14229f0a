package services

import (
	"errors"
	"fmt"
	"gestionale_veicoli_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// LockTTL is how long a case edit lock stays valid after acquisition
const LockTTL = 30 * time.Minute

// lockHolderFallback is shown when the holder's identity cannot be resolved
const lockHolderFallback = "un altro utente"

// CaseLockInfo is the lock row joined with the holder's profile projection
type CaseLockInfo struct {
	CaseID              string    `json:"case_id"`
	LockedBy            string    `json:"locked_by"`
	LockedAt            time.Time `json:"locked_at"`
	ExpiresAt           time.Time `json:"expires_at"`
	LockedByUsername    *string   `json:"locked_by_username,omitempty"`
	LockedByDisplayName *string   `json:"locked_by_display_name,omitempty"`
}

// HolderLabel resolves the name to show for the lock holder: display name,
// then username, then a generic label. Never fails.
func (l *CaseLockInfo) HolderLabel() string {
	if l.LockedByDisplayName != nil && *l.LockedByDisplayName != "" {
		return *l.LockedByDisplayName
	}
	if l.LockedByUsername != nil && *l.LockedByUsername != "" {
		return *l.LockedByUsername
	}
	return lockHolderFallback
}

func lockInfoFromRow(row *models.CaseEditLock) *CaseLockInfo {
	info := &CaseLockInfo{
		CaseID:    row.CaseID,
		LockedBy:  row.LockedBy,
		LockedAt:  row.LockedAt,
		ExpiresAt: row.ExpiresAt,
	}
	if row.Holder != nil {
		info.LockedByUsername = &row.Holder.Username
		info.LockedByDisplayName = row.Holder.DisplayName
	}
	return info
}

// SweepExpiredLocks deletes every lock row whose expiry has passed
func SweepExpiredLocks(db *gorm.DB) error {
	result := db.Where("expires_at <= ?", time.Now()).Delete(&models.CaseEditLock{})
	if result.Error != nil {
		return fmt.Errorf("failed to sweep expired locks: %w", result.Error)
	}
	return nil
}

// CheckCaseLock returns the non-expired lock for a case, or nil when the
// case is free. Expired rows are treated as absent even before being swept.
func CheckCaseLock(db *gorm.DB, caseID string) (*CaseLockInfo, error) {
	var row models.CaseEditLock
	err := db.Preload("Holder").
		Where("case_id = ? AND expires_at > ?", caseID, time.Now()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check case lock: %w", err)
	}
	return lockInfoFromRow(&row), nil
}

// AcquireCaseLock claims the edit lock on a case for a user. It fails with a
// ConflictError naming the current holder when the case is already locked.
// The pre-check only exists for the friendly message: the unique constraint
// on case_id is the authoritative tie-breaker when two acquires race.
func AcquireCaseLock(db *gorm.DB, caseID, userID string) (*CaseLockInfo, error) {
	if err := SweepExpiredLocks(db); err != nil {
		// Sweep failures must not block acquisition
		log.Printf("Error sweeping expired locks: %v", err)
	}

	existing, err := CheckCaseLock(db, caseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("La pratica è già in modifica da %s.", existing.HolderLabel())
	}

	now := time.Now()
	row := models.CaseEditLock{
		CaseID:    caseID,
		LockedBy:  userID,
		LockedAt:  now,
		ExpiresAt: now.Add(LockTTL),
	}

	if err := db.Create(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to acquire case lock: %w", err)
		}
		// Lost the race against another client: the unique constraint on
		// case_id rejected the insert. A leftover expired row also trips the
		// constraint, in which case it is dropped and the insert retried once.
		winner, cerr := CheckCaseLock(db, caseID)
		if cerr != nil {
			return nil, cerr
		}
		if winner != nil {
			return nil, NewConflictError("La pratica è già in modifica da %s.", winner.HolderLabel())
		}
		if rerr := ReleaseCaseLock(db, caseID); rerr != nil {
			return nil, rerr
		}
		if rerr := db.Create(&row).Error; rerr != nil {
			if errors.Is(rerr, gorm.ErrDuplicatedKey) {
				return nil, NewConflictError("La pratica è già in modifica da %s.", lockHolderFallback)
			}
			return nil, fmt.Errorf("failed to acquire case lock: %w", rerr)
		}
	}

	info := lockInfoFromRow(&row)
	if holder, herr := resolveHolder(db, userID); herr == nil && holder != nil {
		info.LockedByUsername = &holder.Username
		info.LockedByDisplayName = holder.DisplayName
	}
	return info, nil
}

// ReleaseCaseLock deletes the lock row for a case. Releasing an absent lock
// is not an error.
func ReleaseCaseLock(db *gorm.DB, caseID string) error {
	result := db.Where("case_id = ?", caseID).Delete(&models.CaseEditLock{})
	if result.Error != nil {
		return fmt.Errorf("failed to release case lock: %w", result.Error)
	}
	return nil
}

func resolveHolder(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
