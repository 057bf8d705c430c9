package handlers

import (
	"errors"
	"net/http"

	"defensoria_app_go/db"
	"defensoria_app_go/middleware"
	"defensoria_app_go/models"
	"defensoria_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type groupRequest struct {
	Name       string  `json:"name"`
	CaseTypeID *string `json:"case_type_id,omitempty"`
}

// GetGroupsHandler lists the groups of the user's defensoria
func GetGroupsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	groups, err := services.GetGroups(db.DB, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch groups")
	}
	return c.JSON(http.StatusOK, groups)
}

// CreateGroupHandler creates a routing group
func CreateGroupHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req groupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	group := &models.Group{
		Name:         req.Name,
		CaseTypeID:   req.CaseTypeID,
		DefensoriaID: *user.DefensoriaID,
		IsActive:     true,
	}
	if err := services.CreateGroup(db.DB, group); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, group)
}

// UpdateGroupHandler updates a group's fields
func UpdateGroupHandler(c echo.Context) error {
	group, err := fetchDefensoriaGroup(c)
	if err != nil {
		return err
	}

	var req groupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.CaseTypeID != nil {
		group.CaseTypeID = req.CaseTypeID
	}

	if err := services.UpdateGroup(db.DB, group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update group")
	}
	return c.JSON(http.StatusOK, group)
}

// DeleteGroupHandler removes a group
func DeleteGroupHandler(c echo.Context) error {
	group, err := fetchDefensoriaGroup(c)
	if err != nil {
		return err
	}

	if err := services.DeleteGroup(db.DB, group.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete group")
	}
	return c.NoContent(http.StatusNoContent)
}

type membershipRequest struct {
	UserID string `json:"user_id"`
}

// AddGroupMemberHandler adds an attorney to a group
func AddGroupMemberHandler(c echo.Context) error {
	group, err := fetchDefensoriaGroup(c)
	if err != nil {
		return err
	}

	var req membershipRequest
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "User id is required")
	}

	if err := services.AddUserToGroup(db.DB, group.ID, req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to add user to group")
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveGroupMemberHandler removes an attorney from a group
func RemoveGroupMemberHandler(c echo.Context) error {
	group, err := fetchDefensoriaGroup(c)
	if err != nil {
		return err
	}

	if err := services.RemoveUserFromGroup(db.DB, group.ID, c.Param("userId")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to remove user from group")
	}
	return c.NoContent(http.StatusNoContent)
}

type associateGroupRequest struct {
	GroupID string `json:"group_id"`
}

// AssignGroupToCaseTypeHandler links a group to a case type (inactive)
func AssignGroupToCaseTypeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseTypeID := c.Param("id")

	var req associateGroupRequest
	if err := c.Bind(&req); err != nil || req.GroupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Group id is required")
	}

	association, err := services.AssignGroupToCaseType(db.DB, caseTypeID, req.GroupID, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to assign group to case type")
	}
	return c.JSON(http.StatusCreated, association)
}

// ActivateGroupHandler makes a group the authoritative routing group for
// a case type
func ActivateGroupHandler(c echo.Context) error {
	caseTypeID := c.Param("id")
	groupID := c.Param("groupId")

	if err := services.ActivateGroupForCaseType(db.DB, caseTypeID, groupID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCaseTypeGroupsHandler lists the group associations of a case type
func GetCaseTypeGroupsHandler(c echo.Context) error {
	associations, err := services.GetGroupsForCaseType(db.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case type groups")
	}
	return c.JSON(http.StatusOK, associations)
}

// fetchDefensoriaGroup loads the group from the path and verifies it
// belongs to the user's defensoria
func fetchDefensoriaGroup(c echo.Context) (*models.Group, error) {
	user := middleware.GetCurrentUser(c)

	group, err := services.GetGroupByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch group")
	}
	if user.DefensoriaID == nil || group.DefensoriaID != *user.DefensoriaID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Group belongs to another defensoria")
	}
	return group, nil
}
