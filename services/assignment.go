package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

var (
	// ErrNoCandidate means no assignable attorney exists for the case.
	// It is a legitimate terminal outcome, not a system fault: the case
	// stays unassigned and the caller must surface it distinctly.
	ErrNoCandidate = errors.New("no assignable attorney available")

	// ErrCaseAlreadyTaken means the case was taken by its attorney and
	// the assignment can no longer be changed.
	ErrCaseAlreadyTaken = errors.New("case already taken")
)

// AutoAssign picks an attorney for a newly registered case and persists
// the assignment. The candidate pool honors group routing with its
// fallbacks (see SelectCandidatePool); the actual pick is least-loaded
// with random tie-break.
func AutoAssign(db *gorm.DB, caseID, caseTypeID, defensoriaID string) (*models.User, error) {
	pool, err := SelectCandidatePool(db, caseTypeID, defensoriaID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoCandidate
	}

	assignee, err := PickAssignee(db, pool)
	if err != nil {
		return nil, err
	}

	if err := updateCaseAssignment(db, caseID, assignee.ID); err != nil {
		return nil, err
	}

	log.Printf("[ASSIGN] case %s auto-assigned to %s (%s)", caseID, assignee.Name, assignee.ID)
	return assignee, nil
}

// Reassign moves a not-yet-taken case to the given attorney. The attorney
// is trusted as-is: manual reassignment is a defensor override and
// deliberately bypasses the candidate-pool routing.
func Reassign(db *gorm.DB, caseID, attorneyID string) (*models.Case, error) {
	var attorney models.User
	if err := db.First(&attorney, "id = ?", attorneyID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch attorney: %w", err)
	}

	if err := updateCaseAssignment(db, caseID, attorneyID); err != nil {
		return nil, err
	}

	var updated models.Case
	if err := db.Preload("AssignedTo").Preload("CaseType").First(&updated, "id = ?", caseID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch updated case: %w", err)
	}

	log.Printf("[ASSIGN] case %s reassigned to %s (%s)", caseID, attorney.Name, attorney.ID)
	return &updated, nil
}

// TakeCase marks a case as taken by its assigned attorney, locking the
// assignment. Only the attorney the case is assigned to may take it.
func TakeCase(db *gorm.DB, caseID, userID string) (*models.Case, error) {
	now := time.Now()
	result := db.Model(&models.Case{}).
		Where("id = ? AND assigned_to_id = ? AND is_taken = ?", caseID, userID, false).
		Updates(map[string]interface{}{
			"is_taken": true,
			"taken_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to take case: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var existing models.Case
		if err := db.First(&existing, "id = ?", caseID).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch case: %w", err)
		}
		if existing.IsTaken {
			return nil, ErrCaseAlreadyTaken
		}
		return nil, fmt.Errorf("case %s is not assigned to user %s", caseID, userID)
	}

	var updated models.Case
	if err := db.Preload("CaseType").First(&updated, "id = ?", caseID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch updated case: %w", err)
	}
	return &updated, nil
}

// updateCaseAssignment writes the assignment through a single conditional
// UPDATE keyed on is_taken = false. The precondition check and the write
// are one statement, keeping the race window against a concurrent take as
// narrow as the store allows.
func updateCaseAssignment(db *gorm.DB, caseID, attorneyID string) error {
	now := time.Now()
	result := db.Model(&models.Case{}).
		Where("id = ? AND is_taken = ?", caseID, false).
		Updates(map[string]interface{}{
			"assigned_to_id": attorneyID,
			"assigned_at":    now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update case assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var existing models.Case
		if err := db.First(&existing, "id = ?", caseID).Error; err != nil {
			return fmt.Errorf("failed to fetch case: %w", err)
		}
		if existing.IsTaken {
			return ErrCaseAlreadyTaken
		}
		return fmt.Errorf("case %s not updated", caseID)
	}
	return nil
}
