package services

import (
	"fmt"
	"time"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

// ListAttorneys fetches all users with the abogado role in a defensoria,
// with their group memberships resolved. An empty result is a valid
// outcome, not an error. Filtering to assignable attorneys is the
// caller's responsibility (see models.User.IsAssignable).
func ListAttorneys(db *gorm.DB, defensoriaID string) ([]models.User, error) {
	if defensoriaID == "" {
		return nil, fmt.Errorf("defensoria id is required")
	}

	var attorneys []models.User
	err := db.Preload("Groups").
		Where("defensoria_id = ? AND role = ?", defensoriaID, models.RoleAbogado).
		Order("name").
		Find(&attorneys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attorneys: %w", err)
	}

	return attorneys, nil
}

// ListAssignableAttorneys fetches the attorneys of a defensoria that are
// currently valid assignment candidates (active and not on leave).
func ListAssignableAttorneys(db *gorm.DB, defensoriaID string) ([]models.User, error) {
	attorneys, err := ListAttorneys(db, defensoriaID)
	if err != nil {
		return nil, err
	}

	assignable := make([]models.User, 0, len(attorneys))
	for _, a := range attorneys {
		if a.IsAssignable() {
			assignable = append(assignable, a)
		}
	}
	return assignable, nil
}

// UpdateUserAvailability sets the leave state of an attorney. Clearing the
// leave also clears the advisory end date.
func UpdateUserAvailability(db *gorm.DB, userID string, onLeave bool, leaveEndDate *time.Time) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	updates := map[string]interface{}{
		"on_leave":       onLeave,
		"leave_end_date": leaveEndDate,
	}
	if !onLeave {
		updates["leave_end_date"] = nil
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}

	return &user, nil
}

// DeactivateUser soft-deactivates an attorney. Users are never hard-deleted.
func DeactivateUser(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReactivateUser re-enables a previously deactivated attorney
func ReactivateUser(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", true)
	if result.Error != nil {
		return fmt.Errorf("failed to reactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
