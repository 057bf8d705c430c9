package services

import (
	"testing"
	"time"

	"defensoria_app_go/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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

	return db
}

func createTestDefensoria(t *testing.T, db *gorm.DB, id string) *models.Defensoria {
	defensoria := &models.Defensoria{ID: id, Name: "Defensoria " + id}
	require.NoError(t, db.Create(defensoria).Error)
	return defensoria
}

func createTestAttorney(t *testing.T, db *gorm.DB, id, defensoriaID string, assignable bool) *models.User {
	attorney := &models.User{
		ID:           id,
		Name:         "Abogado " + id,
		Email:        id + "@defensoria.gob",
		Password:     "x",
		Role:         models.RoleAbogado,
		DefensoriaID: &defensoriaID,
		IsActive:     true,
	}
	if !assignable {
		attorney.OnLeave = true
		end := time.Now().Add(7 * 24 * time.Hour)
		attorney.LeaveEndDate = &end
	}
	require.NoError(t, db.Create(attorney).Error)
	return attorney
}

func createTestCaseType(t *testing.T, db *gorm.DB, id, defensoriaID, name string) *models.CaseType {
	caseType := &models.CaseType{ID: id, Name: name, DefensoriaID: defensoriaID}
	require.NoError(t, db.Create(caseType).Error)
	return caseType
}

func createTestGroup(t *testing.T, db *gorm.DB, id, defensoriaID, name string, members ...*models.User) *models.Group {
	group := &models.Group{ID: id, Name: name, DefensoriaID: defensoriaID, IsActive: true}
	require.NoError(t, db.Create(group).Error)
	for _, m := range members {
		require.NoError(t, db.Model(group).Association("Members").Append(m))
	}
	return group
}

func createTestCase(t *testing.T, db *gorm.DB, id, number, caseTypeID, defensoriaID string) *models.Case {
	c := &models.Case{
		ID:           id,
		CaseNumber:   number,
		CaseTypeID:   caseTypeID,
		DefensoriaID: defensoriaID,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func assignTestCase(t *testing.T, db *gorm.DB, caseID, attorneyID string) {
	now := time.Now()
	require.NoError(t, db.Model(&models.Case{}).Where("id = ?", caseID).Updates(map[string]interface{}{
		"assigned_to_id": attorneyID,
		"assigned_at":    now,
	}).Error)
}
