package services

import (
	"fmt"
	"testing"

	"defensoria_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountAssignedCases(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	att := createTestAttorney(t, db, "att-1", "def-1", true)

	c1 := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	c2 := createTestCase(t, db, "case-2", "101/2026", "ct-1", "def-1")
	assignTestCase(t, db, c1.ID, att.ID)
	assignTestCase(t, db, c2.ID, att.ID)

	// A taken case still counts toward load
	require.NoError(t, db.Model(&models.Case{}).Where("id = ?", c2.ID).Update("is_taken", true).Error)

	count, err := CountAssignedCases(db, att.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPickAssignee_EmptyPoolIsContractViolation(t *testing.T) {
	db := setupTestDB(t)

	_, err := PickAssignee(db, nil)
	assert.Error(t, err)
}

func TestPickAssignee_AlwaysPicksLeastLoaded(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")

	a := createTestAttorney(t, db, "att-a", "def-1", true)
	b := createTestAttorney(t, db, "att-b", "def-1", true)
	c := createTestAttorney(t, db, "att-c", "def-1", true)

	// A carries 2 cases, B and C none
	c1 := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	c2 := createTestCase(t, db, "case-2", "101/2026", "ct-1", "def-1")
	assignTestCase(t, db, c1.ID, a.ID)
	assignTestCase(t, db, c2.ID, a.ID)

	candidates := []models.User{*a, *b, *c}
	for i := 0; i < 50; i++ {
		assignee, err := PickAssignee(db, candidates)
		require.NoError(t, err)
		assert.NotEqual(t, "att-a", assignee.ID)
	}
}

func TestPickAssignee_SingleCandidate(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	a := createTestAttorney(t, db, "att-a", "def-1", true)

	assignee, err := PickAssignee(db, []models.User{*a})
	assert.NoError(t, err)
	assert.Equal(t, "att-a", assignee.ID)
}

func TestPickAssignee_TieBreakIsRoughlyUniform(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")

	candidates := make([]models.User, 0, 4)
	for i := 1; i <= 4; i++ {
		att := createTestAttorney(t, db, fmt.Sprintf("att-%d", i), "def-1", true)
		candidates = append(candidates, *att)
	}

	const trials = 2000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		assignee, err := PickAssignee(db, candidates)
		require.NoError(t, err)
		counts[assignee.ID]++
	}

	// Chi-square over 4 equally likely outcomes, expected 500 each.
	// Critical value for df=3 at p=0.001 is 16.27.
	expected := float64(trials) / 4
	chiSquare := 0.0
	for _, c := range candidates {
		observed := float64(counts[c.ID])
		diff := observed - expected
		chiSquare += diff * diff / expected
	}
	assert.Less(t, chiSquare, 16.27, "tie-break distribution is too skewed: %v", counts)

	// Every candidate must have been picked at least once
	for _, c := range candidates {
		assert.Greater(t, counts[c.ID], 0)
	}
}

func TestFetchCaseLoads_FillsZeroForUnassigned(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")

	a := createTestAttorney(t, db, "att-a", "def-1", true)
	b := createTestAttorney(t, db, "att-b", "def-1", true)

	c1 := createTestCase(t, db, "case-1", "100/2026", "ct-1", "def-1")
	assignTestCase(t, db, c1.ID, a.ID)

	loads, err := fetchCaseLoads(db, []models.User{*a, *b})
	require.NoError(t, err)
	assert.Equal(t, int64(1), loads["att-a"])
	assert.Equal(t, int64(0), loads["att-b"])
}
