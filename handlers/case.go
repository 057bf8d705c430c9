package handlers

import (
	"errors"
	"net/http"

	"defensoria_app_go/config"
	"defensoria_app_go/db"
	"defensoria_app_go/middleware"
	"defensoria_app_go/models"
	"defensoria_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Assignment outcome constants, distinguishable from transport failures
// so the UI can message "no attorney available" vs "try again"
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoCandidate = "no_candidate"
	OutcomeRejected    = "rejected"

	ReasonAlreadyTaken = "already_taken"
)

type registerCaseRequest struct {
	CaseNumber string `json:"case_number"`
	CaseTypeID string `json:"case_type_id"`
	Notes      string `json:"notes"`
}

type assignmentResponse struct {
	Outcome    string       `json:"outcome"`
	Reason     string       `json:"reason,omitempty"`
	Case       *models.Case `json:"case,omitempty"`
	AssignedTo *models.User `json:"assigned_to,omitempty"`
}

// RegisterCaseHandler creates a new expediente and auto-assigns it
func RegisterCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req registerCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.CaseNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Case number is required")
	}
	if req.CaseTypeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Case type is required")
	}

	cfg, _ := c.Get("config").(*config.Config)
	result, err := services.RegisterCase(db.DB, cfg, req.CaseNumber, req.CaseTypeID, *user.DefensoriaID, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown case type")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register case")
	}

	if result.AssignedTo == nil {
		return c.JSON(http.StatusCreated, assignmentResponse{
			Outcome: OutcomeNoCandidate,
			Case:    result.Case,
		})
	}

	return c.JSON(http.StatusCreated, assignmentResponse{
		Outcome:    OutcomeAssigned,
		Case:       result.Case,
		AssignedTo: result.AssignedTo,
	})
}

type reassignRequest struct {
	AttorneyID string `json:"attorney_id"`
}

// ReassignCaseHandler moves a not-yet-taken case to another attorney.
// Defensor-only: manual reassignment bypasses group routing by design.
func ReassignCaseHandler(c echo.Context) error {
	caseID := c.Param("id")

	var req reassignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.AttorneyID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Attorney id is required")
	}

	updated, err := services.Reassign(db.DB, caseID, req.AttorneyID)
	if err != nil {
		if errors.Is(err, services.ErrCaseAlreadyTaken) {
			return c.JSON(http.StatusConflict, assignmentResponse{
				Outcome: OutcomeRejected,
				Reason:  ReasonAlreadyTaken,
			})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case or attorney not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reassign case")
	}

	return c.JSON(http.StatusOK, assignmentResponse{
		Outcome:    OutcomeAssigned,
		Case:       updated,
		AssignedTo: updated.AssignedTo,
	})
}

// TakeCaseHandler lets the assigned attorney confirm ownership of a case
func TakeCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	taken, err := services.TakeCase(db.DB, caseID, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrCaseAlreadyTaken) {
			return c.JSON(http.StatusConflict, assignmentResponse{
				Outcome: OutcomeRejected,
				Reason:  ReasonAlreadyTaken,
			})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusForbidden, "Case is not assigned to you")
	}

	return c.JSON(http.StatusOK, taken)
}

// GetCasesHandler lists the cases of the user's defensoria
func GetCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := services.GetCases(db.DB, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch cases")
	}
	return c.JSON(http.StatusOK, cases)
}

// GetMyCasesHandler lists the cases assigned to the current attorney
func GetMyCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := services.GetAssignedCases(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch assigned cases")
	}
	return c.JSON(http.StatusOK, cases)
}

// GetCaseHandler returns a single case
func GetCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	found, err := services.GetCaseByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}
	if user.DefensoriaID == nil || found.DefensoriaID != *user.DefensoriaID {
		return echo.NewHTTPError(http.StatusForbidden, "Case belongs to another defensoria")
	}

	return c.JSON(http.StatusOK, found)
}

// ImportCasesHandler processes a bulk expediente Excel upload
func ImportCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file upload")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	cfg, _ := c.Get("config").(*config.Config)
	result, err := services.ImportCases(db.DB, cfg, *user.DefensoriaID, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to process import file")
	}

	return c.JSON(http.StatusOK, result)
}

// DownloadImportTemplateHandler serves the Excel import template
func DownloadImportTemplateHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	buf, err := services.GenerateImportTemplate(db.DB, *user.DefensoriaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate template")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="expedientes.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
