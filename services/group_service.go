package services

import (
	"fmt"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

// GetGroups fetches the groups of a defensoria with members and principal
// case type preloaded
func GetGroups(db *gorm.DB, defensoriaID string) ([]models.Group, error) {
	var groups []models.Group
	err := db.Preload("Members").Preload("CaseType").
		Where("defensoria_id = ?", defensoriaID).
		Order("name").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	return groups, nil
}

// GetGroupByID fetches a single group with its members
func GetGroupByID(db *gorm.DB, id string) (*models.Group, error) {
	var group models.Group
	err := db.Preload("Members").Preload("CaseType").First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a new routing group
func CreateGroup(db *gorm.DB, group *models.Group) error {
	if group.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if group.DefensoriaID == "" {
		return fmt.Errorf("defensoria id is required")
	}
	if err := db.Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// UpdateGroup updates a group's basic fields
func UpdateGroup(db *gorm.DB, group *models.Group) error {
	if err := db.Save(group).Error; err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// DeleteGroup removes a group and its case type associations
func DeleteGroup(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.CaseTypeGroup{}).Error; err != nil {
			return fmt.Errorf("failed to delete group associations: %w", err)
		}
		if err := tx.Delete(&models.Group{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}

// AddUserToGroup adds an attorney to a group's membership
func AddUserToGroup(db *gorm.DB, groupID, userID string) error {
	var group models.Group
	if err := db.First(&group, "id = ?", groupID).Error; err != nil {
		return fmt.Errorf("failed to fetch group: %w", err)
	}
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := db.Model(&group).Association("Members").Append(&user); err != nil {
		return fmt.Errorf("failed to add user to group: %w", err)
	}
	return nil
}

// RemoveUserFromGroup removes an attorney from a group's membership
func RemoveUserFromGroup(db *gorm.DB, groupID, userID string) error {
	var group models.Group
	if err := db.First(&group, "id = ?", groupID).Error; err != nil {
		return fmt.Errorf("failed to fetch group: %w", err)
	}

	if err := db.Model(&group).Association("Members").Delete(&models.User{ID: userID}); err != nil {
		return fmt.Errorf("failed to remove user from group: %w", err)
	}
	return nil
}

// GetGroupMembers returns the member ids of a group
func GetGroupMembers(db *gorm.DB, groupID string) ([]string, error) {
	group, err := GetGroupByID(db, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group members: %w", err)
	}
	return group.MemberIDs(), nil
}

// AssignGroupToCaseType links a group to a case type. The association is
// created inactive; ActivateGroupForCaseType makes it authoritative.
func AssignGroupToCaseType(db *gorm.DB, caseTypeID, groupID, defensoriaID string) (*models.CaseTypeGroup, error) {
	association := &models.CaseTypeGroup{
		CaseTypeID:   caseTypeID,
		GroupID:      groupID,
		DefensoriaID: defensoriaID,
		IsActive:     false,
	}
	if err := db.Create(association).Error; err != nil {
		return nil, fmt.Errorf("failed to assign group to case type: %w", err)
	}
	return association, nil
}

// ActivateGroupForCaseType makes the given group the single authoritative
// routing group for a case type. Deactivate-all then activate-one runs in
// one transaction, so a reader never observes zero or two active rows.
func ActivateGroupForCaseType(db *gorm.DB, caseTypeID, groupID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CaseTypeGroup{}).
			Where("case_type_id = ?", caseTypeID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate group associations: %w", err)
		}

		result := tx.Model(&models.CaseTypeGroup{}).
			Where("case_type_id = ? AND group_id = ?", caseTypeID, groupID).
			Update("is_active", true)
		if result.Error != nil {
			return fmt.Errorf("failed to activate group association: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("no association between case type %s and group %s", caseTypeID, groupID)
		}
		return nil
	})
}

// GetGroupsForCaseType fetches the associations of a case type with the
// groups preloaded
func GetGroupsForCaseType(db *gorm.DB, caseTypeID string) ([]models.CaseTypeGroup, error) {
	var associations []models.CaseTypeGroup
	err := db.Preload("Group").
		Where("case_type_id = ?", caseTypeID).
		Find(&associations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case type groups: %w", err)
	}
	return associations, nil
}
