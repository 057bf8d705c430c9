package handlers

import (
	"errors"
	"net/http"
	"time"

	"defensoria_app_go/db"
	"defensoria_app_go/middleware"
	"defensoria_app_go/models"
	"defensoria_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type attorneyView struct {
	models.User
	AssignedCases int64 `json:"assigned_cases"`
}

// GetAttorneysHandler lists the attorneys of the user's defensoria with
// their group memberships and current caseload
func GetAttorneysHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	attorneys, err := services.ListAttorneys(db.DB, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch attorneys")
	}

	views := make([]attorneyView, 0, len(attorneys))
	for _, a := range attorneys {
		load, err := services.CountAssignedCases(db.DB, a.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count caseloads")
		}
		views = append(views, attorneyView{User: a, AssignedCases: load})
	}

	return c.JSON(http.StatusOK, views)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUserHandler creates a user in the current defensoria
func CreateUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email and password are required")
	}
	if !models.IsValidRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
	}
	if err := services.ValidatePassword(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     hashed,
		Role:         req.Role,
		DefensoriaID: current.DefensoriaID,
		IsActive:     true,
	}
	if err := db.DB.Create(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already exists")
	}

	return c.JSON(http.StatusCreated, user)
}

type availabilityRequest struct {
	OnLeave      bool       `json:"on_leave"`
	LeaveEndDate *time.Time `json:"leave_end_date,omitempty"`
}

// UpdateAvailabilityHandler sets an attorney's leave state
func UpdateAvailabilityHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)

	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	target, err := fetchDefensoriaUser(c, current)
	if err != nil {
		return err
	}

	updated, err := services.UpdateUserAvailability(db.DB, target.ID, req.OnLeave, req.LeaveEndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update availability")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeactivateUserHandler soft-deactivates a user. Users are never deleted.
func DeactivateUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)

	target, err := fetchDefensoriaUser(c, current)
	if err != nil {
		return err
	}

	if err := services.DeactivateUser(db.DB, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate user")
	}
	return c.NoContent(http.StatusNoContent)
}

// ReactivateUserHandler re-enables a deactivated user
func ReactivateUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)

	target, err := fetchDefensoriaUser(c, current)
	if err != nil {
		return err
	}

	if err := services.ReactivateUser(db.DB, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reactivate user")
	}
	return c.NoContent(http.StatusNoContent)
}

// fetchDefensoriaUser loads the target user and verifies defensoria scope
func fetchDefensoriaUser(c echo.Context, current *models.User) (*models.User, error) {
	var target models.User
	if err := db.DB.First(&target, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}
	if current.DefensoriaID == nil || target.DefensoriaID == nil || *target.DefensoriaID != *current.DefensoriaID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "User belongs to another defensoria")
	}
	return &target, nil
}
