package handlers

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"defensoria_app_go/config"
	"defensoria_app_go/db"
	"defensoria_app_go/middleware"
	"defensoria_app_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while allowing async tasks
	// to reuse the connection
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Defensoria{},
		&models.User{},
		&models.Session{},
		&models.Group{},
		&models.CaseType{},
		&models.CaseTypeGroup{},
		&models.Case{},
		&models.Notification{},
	)
	require.NoError(t, err)

	db.DB = testDB
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
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestDefensoria(t *testing.T, testDB *gorm.DB, id string) *models.Defensoria {
	defensoria := &models.Defensoria{ID: id, Name: "Defensoria " + id}
	require.NoError(t, testDB.Create(defensoria).Error)
	return defensoria
}

func createTestUser(t *testing.T, testDB *gorm.DB, id, defensoriaID, role string) *models.User {
	user := &models.User{
		ID:           id,
		Name:         "Usuario " + id,
		Email:        id + "@defensoria.gob",
		Password:     "x",
		Role:         role,
		DefensoriaID: &defensoriaID,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestCaseType(t *testing.T, testDB *gorm.DB, id, defensoriaID, name string) *models.CaseType {
	caseType := &models.CaseType{ID: id, Name: name, DefensoriaID: defensoriaID}
	require.NoError(t, testDB.Create(caseType).Error)
	return caseType
}

func createTestCase(t *testing.T, testDB *gorm.DB, id, number, caseTypeID, defensoriaID string) *models.Case {
	c := &models.Case{
		ID:           id,
		CaseNumber:   number,
		CaseTypeID:   caseTypeID,
		DefensoriaID: defensoriaID,
	}
	require.NoError(t, testDB.Create(c).Error)
	return c
}

func assignTestCase(t *testing.T, testDB *gorm.DB, caseID, attorneyID string) {
	now := time.Now()
	require.NoError(t, testDB.Model(&models.Case{}).Where("id = ?", caseID).Updates(map[string]interface{}{
		"assigned_to_id": attorneyID,
		"assigned_at":    now,
	}).Error)
}

func asCurrentUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}
