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

type caseTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetCaseTypesHandler lists the case types of the user's defensoria
func GetCaseTypesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseTypes, err := services.GetCaseTypes(db.DB, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case types")
	}
	return c.JSON(http.StatusOK, caseTypes)
}

// CreateCaseTypeHandler creates a case type
func CreateCaseTypeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req caseTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	caseType := &models.CaseType{
		Name:         req.Name,
		Description:  req.Description,
		DefensoriaID: *user.DefensoriaID,
	}
	if err := services.CreateCaseType(db.DB, caseType); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, caseType)
}

// UpdateCaseTypeHandler updates a case type
func UpdateCaseTypeHandler(c echo.Context) error {
	caseType, err := fetchDefensoriaCaseType(c)
	if err != nil {
		return err
	}

	var req caseTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name != "" {
		caseType.Name = req.Name
	}
	caseType.Description = req.Description

	if err := services.UpdateCaseType(db.DB, caseType); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case type")
	}
	return c.JSON(http.StatusOK, caseType)
}

// DeleteCaseTypeHandler removes a case type
func DeleteCaseTypeHandler(c echo.Context) error {
	caseType, err := fetchDefensoriaCaseType(c)
	if err != nil {
		return err
	}

	if err := services.DeleteCaseType(db.DB, caseType.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case type")
	}
	return c.NoContent(http.StatusNoContent)
}

// fetchDefensoriaCaseType loads the case type from the path and verifies
// it belongs to the user's defensoria
func fetchDefensoriaCaseType(c echo.Context) (*models.CaseType, error) {
	user := middleware.GetCurrentUser(c)

	caseType, err := services.GetCaseTypeByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Case type not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case type")
	}
	if user.DefensoriaID == nil || caseType.DefensoriaID != *user.DefensoriaID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Case type belongs to another defensoria")
	}
	return caseType, nil
}
