package services

import (
	"fmt"
	"math/rand/v2"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

// CountAssignedCases counts the current caseload of an attorney. Load
// includes every assigned case regardless of taken state - work not yet
// confirmed still occupies the attorney.
func CountAssignedCases(db *gorm.DB, attorneyID string) (int64, error) {
	var count int64
	err := db.Model(&models.Case{}).
		Where("assigned_to_id = ?", attorneyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assigned cases: %w", err)
	}
	return count, nil
}

// fetchCaseLoads returns the caseload of every candidate in a single
// grouped query. Attorneys with no cases are filled in with zero so the
// minimum is computed over the complete candidate set.
func fetchCaseLoads(db *gorm.DB, candidates []models.User) (map[string]int64, error) {
	ids := make([]string, 0, len(candidates))
	loads := make(map[string]int64, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
		loads[c.ID] = 0
	}

	var rows []struct {
		AssignedToID string
		Total        int64
	}
	err := db.Model(&models.Case{}).
		Select("assigned_to_id, COUNT(*) as total").
		Where("assigned_to_id IN ?", ids).
		Group("assigned_to_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case loads: %w", err)
	}

	for _, row := range rows {
		loads[row.AssignedToID] = row.Total
	}
	return loads, nil
}

// PickAssignee selects the attorney to receive the next case: the
// candidate with the fewest assigned cases, ties broken uniformly at
// random. The candidate set must be non-empty; callers are expected to
// handle the empty-pool case before calling.
func PickAssignee(db *gorm.DB, candidates []models.User) (*models.User, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("candidate pool must not be empty")
	}

	loads, err := fetchCaseLoads(db, candidates)
	if err != nil {
		return nil, err
	}

	minLoad := loads[candidates[0].ID]
	for _, c := range candidates[1:] {
		if loads[c.ID] < minLoad {
			minLoad = loads[c.ID]
		}
	}

	tied := make([]models.User, 0, len(candidates))
	for _, c := range candidates {
		if loads[c.ID] == minLoad {
			tied = append(tied, c)
		}
	}

	// Ties are common (all-zero at steady state); uniform selection keeps
	// the distribution fair. Does not need to be cryptographically secure.
	chosen := tied[rand.IntN(len(tied))]
	return &chosen, nil
}
