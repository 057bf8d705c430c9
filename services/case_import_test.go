package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildImportFile(t *testing.T, rows [][]string) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", importSheetName)
	f.SetCellValue(importSheetName, "A1", "Número de Expediente*")
	f.SetCellValue(importSheetName, "B1", "Tipo de Proceso*")
	f.SetCellValue(importSheetName, "C1", "Observaciones")

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(importSheetName, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportCases(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	createTestCaseType(t, db, "ct-2", "def-1", "Penal")
	createTestAttorney(t, db, "att-1", "def-1", true)

	buf := buildImportFile(t, [][]string{
		{"100/2026", "Civil", "urgente"},
		{"101/2026", "Penal", ""},
		{"102/2026", "Laboral", ""}, // unknown case type
		{"", "", ""},                // blank row, skipped
	})

	result, err := ImportCases(db, testConfig(), "def-1", buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Errors, 1)

	cases, err := GetCases(db, "def-1")
	require.NoError(t, err)
	assert.Len(t, cases, 2)
	for _, c := range cases {
		assert.True(t, c.IsAssigned())
	}
}

func TestImportCases_NoCandidateIsCountedSeparately(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")

	buf := buildImportFile(t, [][]string{
		{"100/2026", "Civil", ""},
	})

	result, err := ImportCases(db, testConfig(), "def-1", buf)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.NoCandidateCount)
	assert.Equal(t, 0, result.FailedCount)
}

func TestImportCases_MissingCaseType(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")

	buf := buildImportFile(t, [][]string{
		{"100/2026"},
	})

	result, err := ImportCases(db, testConfig(), "def-1", buf)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.FailedCount)
}

func TestImportCases_InvalidFile(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")

	_, err := ImportCases(db, testConfig(), "def-1", bytes.NewBufferString("not an xlsx"))
	assert.Error(t, err)
}

func TestGenerateImportTemplate(t *testing.T) {
	db := setupTestDB(t)
	createTestDefensoria(t, db, "def-1")
	createTestCaseType(t, db, "ct-1", "def-1", "Civil")
	createTestCaseType(t, db, "ct-2", "def-1", "Penal")

	buf, err := GenerateImportTemplate(db, "def-1")
	assert.NoError(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(importSheetName, "A1")
	require.NoError(t, err)
	assert.Contains(t, header, "Expediente")

	rows, err := f.GetRows("Instrucciones")
	require.NoError(t, err)
	joined := ""
	for _, row := range rows {
		for _, cell := range row {
			joined += cell + "\n"
		}
	}
	assert.Contains(t, joined, "Civil")
	assert.Contains(t, joined, "Penal")
}
