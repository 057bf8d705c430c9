package services

import (
	"errors"
	"fmt"

	"defensoria_app_go/config"
	"defensoria_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var caseNotesPolicy = bluemonday.StrictPolicy()

// RegistrationResult is the outcome of registering a new expediente.
// AssignedTo is nil when no assignable attorney existed; the case stays
// unassigned and the caller must surface the no-candidate outcome.
type RegistrationResult struct {
	Case       *models.Case
	AssignedTo *models.User
}

// CreateCase creates an expediente in the unassigned state
func CreateCase(db *gorm.DB, caseNumber, caseTypeID, defensoriaID, notes string) (*models.Case, error) {
	if caseNumber == "" {
		return nil, fmt.Errorf("case number is required")
	}
	if caseTypeID == "" {
		return nil, fmt.Errorf("case type is required")
	}
	if defensoriaID == "" {
		return nil, fmt.Errorf("defensoria id is required")
	}

	// Reject unknown case types up front
	if _, err := GetCaseTypeByID(db, caseTypeID); err != nil {
		return nil, fmt.Errorf("failed to fetch case type: %w", err)
	}

	newCase := &models.Case{
		CaseNumber:   caseNumber,
		CaseTypeID:   caseTypeID,
		DefensoriaID: defensoriaID,
		Notes:        caseNotesPolicy.Sanitize(notes),
	}
	if err := db.Create(newCase).Error; err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return newCase, nil
}

// RegisterCase is the mostrador flow: create the expediente and
// immediately auto-assign it. A missing candidate pool is not an error;
// the case is left unassigned and AssignedTo comes back nil.
func RegisterCase(db *gorm.DB, cfg *config.Config, caseNumber, caseTypeID, defensoriaID, notes string) (*RegistrationResult, error) {
	newCase, err := CreateCase(db, caseNumber, caseTypeID, defensoriaID, notes)
	if err != nil {
		return nil, err
	}

	assignee, err := AutoAssign(db, newCase.ID, caseTypeID, defensoriaID)
	if err != nil {
		if errors.Is(err, ErrNoCandidate) {
			return &RegistrationResult{Case: newCase}, nil
		}
		return nil, err
	}

	if cfg != nil {
		NotifyCaseAssigned(db, cfg, newCase, assignee)
	}

	// Reload to pick up the assignment fields
	var assigned models.Case
	if err := db.Preload("AssignedTo").Preload("CaseType").First(&assigned, "id = ?", newCase.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch registered case: %w", err)
	}

	return &RegistrationResult{Case: &assigned, AssignedTo: assignee}, nil
}

// GetCases fetches all cases of a defensoria, newest first
func GetCases(db *gorm.DB, defensoriaID string) ([]models.Case, error) {
	var cases []models.Case
	err := db.Preload("CaseType").Preload("AssignedTo").
		Where("defensoria_id = ?", defensoriaID).
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return cases, nil
}

// GetAssignedCases fetches the cases assigned to an attorney
func GetAssignedCases(db *gorm.DB, userID string) ([]models.Case, error) {
	var cases []models.Case
	err := db.Preload("CaseType").
		Where("assigned_to_id = ?", userID).
		Order("assigned_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assigned cases: %w", err)
	}
	return cases, nil
}

// GetCaseByID fetches a single case
func GetCaseByID(db *gorm.DB, id string) (*models.Case, error) {
	var c models.Case
	err := db.Preload("CaseType").Preload("AssignedTo").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
