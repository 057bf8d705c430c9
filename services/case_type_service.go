package services

import (
	"fmt"

	"defensoria_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Case type descriptions come from rich-text fields in the admin UI;
// strip all markup before storage.
var caseTypePolicy = bluemonday.StrictPolicy()

// GetCaseTypes fetches the case types of a defensoria
func GetCaseTypes(db *gorm.DB, defensoriaID string) ([]models.CaseType, error) {
	var caseTypes []models.CaseType
	err := db.Where("defensoria_id = ?", defensoriaID).
		Order("name").
		Find(&caseTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case types: %w", err)
	}
	return caseTypes, nil
}

// GetCaseTypeByID fetches a single case type
func GetCaseTypeByID(db *gorm.DB, id string) (*models.CaseType, error) {
	var caseType models.CaseType
	if err := db.First(&caseType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &caseType, nil
}

// GetCaseTypeByName resolves a case type by its name within a defensoria.
// Used by the bulk import, where rows carry names rather than ids.
func GetCaseTypeByName(db *gorm.DB, defensoriaID, name string) (*models.CaseType, error) {
	var caseType models.CaseType
	err := db.Where("defensoria_id = ? AND name = ?", defensoriaID, name).
		First(&caseType).Error
	if err != nil {
		return nil, err
	}
	return &caseType, nil
}

// CreateCaseType creates a new case type
func CreateCaseType(db *gorm.DB, caseType *models.CaseType) error {
	if caseType.Name == "" {
		return fmt.Errorf("case type name is required")
	}
	if caseType.DefensoriaID == "" {
		return fmt.Errorf("defensoria id is required")
	}
	caseType.Description = caseTypePolicy.Sanitize(caseType.Description)

	if err := db.Create(caseType).Error; err != nil {
		return fmt.Errorf("failed to create case type: %w", err)
	}
	return nil
}

// UpdateCaseType updates a case type
func UpdateCaseType(db *gorm.DB, caseType *models.CaseType) error {
	caseType.Description = caseTypePolicy.Sanitize(caseType.Description)
	if err := db.Save(caseType).Error; err != nil {
		return fmt.Errorf("failed to update case type: %w", err)
	}
	return nil
}

// DeleteCaseType removes a case type and its group associations
func DeleteCaseType(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_type_id = ?", id).Delete(&models.CaseTypeGroup{}).Error; err != nil {
			return fmt.Errorf("failed to delete case type associations: %w", err)
		}
		if err := tx.Delete(&models.CaseType{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete case type: %w", err)
		}
		return nil
	})
}
