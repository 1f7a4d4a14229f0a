package handlers

import (
	"gestionale_veicoli_go/config"
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/middleware"
	"gestionale_veicoli_go/models"
	"gestionale_veicoli_go/services"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
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

	// Handlers read the global DB and the process-wide board
	db.DB = testDB
	services.Board.Reset()

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

func createActiveUser(t *testing.T, database *gorm.DB, username, password, role string) *models.User {
	hash, err := services.HashPassword(password)
	assert.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, database.Create(user).Error)
	return user
}

// authenticate injects the user into the request context the way RequireAuth
// would after validating the session cookie.
func authenticate(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func strPtr(s string) *string {
	return &s
}
