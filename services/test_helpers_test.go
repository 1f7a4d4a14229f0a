package services

import (
	"gestionale_veicoli_go/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared-memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		TranslateError: true,
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Vehicle{}, &models.DestinationOffice{},
		&models.Case{}, &models.SeizureCaseDetails{},
		&models.CaseEditLock{}, &models.CaseStatusHistory{},
	)
	assert.NoError(t, err)

	return testDB
}

func createTestUser(t *testing.T, db *gorm.DB, username string, displayName *string) *models.User {
	user := &models.User{
		Username:    username,
		DisplayName: displayName,
		Password:    "not-a-real-hash",
		Role:        models.RoleOperatore,
		IsActive:    true,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(s string) *string {
	return &s
}
