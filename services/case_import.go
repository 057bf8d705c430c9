package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"defensoria_app_go/config"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const importSheetName = "Expedientes"

// ImportResult contains the summary of a bulk expediente import
type ImportResult struct {
	TotalProcessed   int      `json:"total_processed"`
	SuccessCount     int      `json:"success_count"`
	NoCandidateCount int      `json:"no_candidate_count"`
	FailedCount      int      `json:"failed_count"`
	Errors           []string `json:"errors,omitempty"`
}

// GenerateImportTemplate generates the Excel template for bulk expediente
// import, listing the valid case types of the defensoria
func GenerateImportTemplate(db *gorm.DB, defensoriaID string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", importSheetName)
	f.SetCellValue(importSheetName, "A1", "Número de Expediente*")
	f.SetCellValue(importSheetName, "B1", "Tipo de Proceso*")
	f.SetCellValue(importSheetName, "C1", "Observaciones")

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(importSheetName, "A1", "C1", headerStyle)
	f.SetColWidth(importSheetName, "A", "C", 30)

	// Instructions sheet with the valid case type names
	const sheetInstructions = "Instrucciones"
	f.NewSheet(sheetInstructions)
	f.SetCellValue(sheetInstructions, "A1", "Cada fila registra un expediente y lo asigna automáticamente.")
	f.SetCellValue(sheetInstructions, "A2", "El tipo de proceso debe coincidir con uno de los siguientes:")

	caseTypes, err := GetCaseTypes(db, defensoriaID)
	if err != nil {
		return nil, err
	}
	row := 4
	for _, ct := range caseTypes {
		f.SetCellValue(sheetInstructions, fmt.Sprintf("A%d", row), ct.Name)
		row++
	}
	f.SetColWidth(sheetInstructions, "A", "A", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}
	return buf, nil
}

// ImportCases reads an Excel file of expedientes and registers each row
// through the normal registration flow (create + auto-assign). Row errors
// are accumulated; a bad row never aborts the rest of the file.
func ImportCases(db *gorm.DB, cfg *config.Config, defensoriaID string, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(importSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", importSheetName, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		result.TotalProcessed++

		caseNumber := strings.TrimSpace(row[0])
		caseTypeName := ""
		if len(row) > 1 {
			caseTypeName = strings.TrimSpace(row[1])
		}
		notes := ""
		if len(row) > 2 {
			notes = strings.TrimSpace(row[2])
		}

		if caseTypeName == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: falta el tipo de proceso", i+1))
			continue
		}

		caseType, err := GetCaseTypeByName(db, defensoriaID, caseTypeName)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: tipo de proceso desconocido %q", i+1, caseTypeName))
			continue
		}

		registration, err := RegisterCase(db, cfg, caseNumber, caseType.ID, defensoriaID, notes)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", i+1, err))
			continue
		}

		if registration.AssignedTo == nil {
			result.NoCandidateCount++
		} else {
			result.SuccessCount++
		}
	}

	return result, nil
}
