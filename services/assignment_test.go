package services

import (
	"testing"
	"time"

	"defensoria_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoAssign(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	createTestAttorney(t, db, "att-1", "def-1", true)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")

	assignee, err := AutoAssign(db, c.ID, "ct-1", "def-1")
	assert.NoError(t, err)
	require.NotNil(t, assignee)
	assert.Equal(t, "att-1", assignee.ID)

	var fresh models.Case
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	require.NotNil(t, fresh.AssignedToID)
	assert.Equal(t, "att-1", *fresh.AssignedToID)
	assert.NotNil(t, fresh.AssignedAt)
	assert.False(t, fresh.IsTaken)
}

func TestAutoAssign_NoCandidate(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	createTestAttorney(t, db, "att-1", "def-1", false)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")

	_, err := AutoAssign(db, c.ID, "ct-1", "def-1")
	assert.ErrorIs(t, err, ErrNoCandidate)

	// The case stays unassigned
	var fresh models.Case
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	assert.Nil(t, fresh.AssignedToID)
}

func TestAutoAssign_RoutesThroughActiveGroup(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")

	member := createTestAttorney(t, db, "att-1", "def-1", true)
	createTestAttorney(t, db, "att-2", "def-1", true)
	createTestGroup(t, db, "grp-a", "def-1", "Civil A", member)

	_, err := AssignGroupToCaseType(db, "ct-1", "grp-a", "def-1")
	require.NoError(t, err)
	require.NoError(t, ActivateGroupForCaseType(db, "ct-1", "grp-a"))

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")

	assignee, err := AutoAssign(db, c.ID, "ct-1", "def-1")
	assert.NoError(t, err)
	assert.Equal(t, "att-1", assignee.ID)
}

func TestReassign(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	first := createTestAttorney(t, db, "att-1", "def-1", true)
	second := createTestAttorney(t, db, "att-2", "def-1", true)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	assignTestCase(t, db, c.ID, first.ID)

	updated, err := Reassign(db, c.ID, second.ID)
	assert.NoError(t, err)
	require.NotNil(t, updated.AssignedToID)
	assert.Equal(t, "att-2", *updated.AssignedToID)
}

func TestReassign_BypassesRoutingAndAvailability(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")

	// The target is on leave; a defensor override is still honored
	target := createTestAttorney(t, db, "att-1", "def-1", false)
	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")

	updated, err := Reassign(db, c.ID, target.ID)
	assert.NoError(t, err)
	assert.Equal(t, "att-1", *updated.AssignedToID)
}

func TestReassign_RejectedWhenTaken(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	first := createTestAttorney(t, db, "att-1", "def-1", true)
	second := createTestAttorney(t, db, "att-9", "def-1", true)

	c := createTestCase(t, db, "case-42", "42/2026", "ct-1", "def-1")
	assignTestCase(t, db, c.ID, first.ID)

	now := time.Now()
	require.NoError(t, db.Model(&models.Case{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"is_taken": true,
		"taken_at": now,
	}).Error)

	_, err := Reassign(db, c.ID, second.ID)
	assert.ErrorIs(t, err, ErrCaseAlreadyTaken)

	// The assignment must be untouched
	var fresh models.Case
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	assert.Equal(t, "att-1", *fresh.AssignedToID)
}

func TestReassign_UnknownAttorney(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")

	_, err := Reassign(db, c.ID, "missing")
	assert.Error(t, err)
}

func TestTakeCase(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	att := createTestAttorney(t, db, "att-1", "def-1", true)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	assignTestCase(t, db, c.ID, att.ID)

	taken, err := TakeCase(db, c.ID, att.ID)
	assert.NoError(t, err)
	assert.True(t, taken.IsTaken)
	assert.NotNil(t, taken.TakenAt)
}

func TestTakeCase_OnlyAssigneeMayTake(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	att := createTestAttorney(t, db, "att-1", "def-1", true)
	other := createTestAttorney(t, db, "att-2", "def-1", true)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	assignTestCase(t, db, c.ID, att.ID)

	_, err := TakeCase(db, c.ID, other.ID)
	assert.Error(t, err)

	var fresh models.Case
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	assert.False(t, fresh.IsTaken)
}

func TestTakeCase_AlreadyTaken(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	att := createTestAttorney(t, db, "att-1", "def-1", true)

	c := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	assignTestCase(t, db, c.ID, att.ID)

	_, err := TakeCase(db, c.ID, att.ID)
	require.NoError(t, err)

	_, err = TakeCase(db, c.ID, att.ID)
	assert.ErrorIs(t, err, ErrCaseAlreadyTaken)
}
