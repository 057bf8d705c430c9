package services

import (
	"log"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

// SelectCandidatePool resolves the set of attorneys eligible for an
// automatic assignment of the given case type.
//
// Routing policy: if the case type has an active group association, the
// pool is narrowed to the assignable members of that group. Group routing
// is advisory, never a hard block - when no active association exists, or
// when the active group has no assignable members, the full assignable
// pool of the defensoria is returned instead. An empty result therefore
// means the defensoria has no assignable attorneys at all.
func SelectCandidatePool(db *gorm.DB, caseTypeID, defensoriaID string) ([]models.User, error) {
	assignable, err := ListAssignableAttorneys(db, defensoriaID)
	if err != nil {
		return nil, err
	}
	if len(assignable) == 0 {
		return []models.User{}, nil
	}

	associations, err := GetGroupsForCaseType(db, caseTypeID)
	if err != nil {
		return nil, err
	}

	active := findActiveAssociation(caseTypeID, associations)
	if active == nil {
		return assignable, nil
	}

	members := make([]models.User, 0, len(assignable))
	for _, attorney := range assignable {
		if attorney.BelongsToGroup(active.GroupID) {
			members = append(members, attorney)
		}
	}

	// Availability takes precedence over strict group routing: an active
	// group with no assignable members must not starve the case type.
	if len(members) == 0 {
		return assignable, nil
	}

	return members, nil
}

// findActiveAssociation returns the active association for a case type,
// or nil when none exists. More than one active row violates the
// single-active invariant; the first one found is treated as
// authoritative and the anomaly is logged.
func findActiveAssociation(caseTypeID string, associations []models.CaseTypeGroup) *models.CaseTypeGroup {
	var active *models.CaseTypeGroup
	for i := range associations {
		if !associations[i].IsActive {
			continue
		}
		if active != nil {
			log.Printf("[ASSIGN] invariant violation: multiple active group associations for case type %s (using group %s, ignoring %s)",
				caseTypeID, active.GroupID, associations[i].GroupID)
			continue
		}
		active = &associations[i]
	}
	return active
}
