package services

import (
	"testing"
	"time"

	"defensoria_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUserWithPassword(t *testing.T, db *gorm.DB, email, password string, active bool) *models.User {
	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Name:     "Usuario",
		Email:    email,
		Password: hash,
		Role:     models.RoleDefensor,
		IsActive: active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.True(t, CheckPassword("secreto123", hash))
	assert.False(t, CheckPassword("otro", hash))
}

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	require.NoError(t, err)
	token2, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.Len(t, token1, SessionTokenLength*2)
	assert.NotEqual(t, token1, token2)
}

func TestCreateAndValidateSession(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	session, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	validated, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, validated.UserID)
	assert.Equal(t, user.Email, validated.User.Email)
}

func TestValidateSession_Expired(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	session, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("expires_at", expired).Error)

	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)

	// Expired sessions are removed on validation
	var count int64
	db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	session, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	require.NoError(t, DeleteSession(db, session.Token))

	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	live, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	stale, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", stale.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	require.NoError(t, CleanupExpiredSessions(db))

	var sessions []models.Session
	require.NoError(t, db.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.Equal(t, live.ID, sessions[0].ID)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	user, err := Authenticate(db, "defensor@defensoria.gob", "secreto123")
	assert.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", true)

	_, err := Authenticate(db, "defensor@defensoria.gob", "incorrecto")
	assert.Error(t, err)
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	createTestUserWithPassword(t, db, "defensor@defensoria.gob", "secreto123", false)

	_, err := Authenticate(db, "defensor@defensoria.gob", "secreto123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deactivated")
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	db := setupTestDB(t)

	_, err := Authenticate(db, "nadie@defensoria.gob", "secreto123")
	assert.Error(t, err)
}
