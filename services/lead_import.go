package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"ai_crm_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// MaxImportRows caps a single spreadsheet import
const MaxImportRows = 1000

const leadSheetName = "Leads"

// leadImportColumns defines the expected column order of the import sheet
var leadImportColumns = []string{"Name", "Email", "Phone", "Company", "Source", "Interest", "Status"}

// ImportResult contains the summary of the import process
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	Errors         []string `json:"errors,omitempty"`
}

// GenerateLeadImportTemplate generates the Excel template for lead import
func GenerateLeadImportTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", leadSheetName)

	for i, col := range leadImportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(leadSheetName, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	// Example row below the header
	example := []string{"Jane Doe", "jane@example.com", "+1 555 0100", "Acme Corp", "website", "Enterprise plan", models.LeadStatusNew}
	for i, value := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to build example cell: %w", err)
		}
		if err := f.SetCellValue(leadSheetName, cell, value); err != nil {
			return nil, fmt.Errorf("failed to write example row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}
	return buf, nil
}

// ImportLeadsFromExcel reads leads from an uploaded spreadsheet and
// persists the valid rows, collecting per-row errors for the rest
func ImportLeadsFromExcel(db *gorm.DB, reader io.Reader, assignedToID string) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := leadSheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		// Fall back to the first sheet when the template name is absent
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("spreadsheet has no data rows")
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		if result.TotalProcessed >= MaxImportRows {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: import limit of %d rows reached", rowNum, MaxImportRows))
			break
		}
		result.TotalProcessed++

		lead, err := leadFromRow(row)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if assignedToID != "" {
			lead.AssignedToID = &assignedToID
		}

		if err := CreateLead(db, lead); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

func leadFromRow(row []string) (*models.Lead, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	status := strings.ToUpper(cell(6))
	if status == "" {
		status = models.LeadStatusNew
	}
	if !models.IsValidLeadStatus(status) {
		return nil, fmt.Errorf("invalid status %q", cell(6))
	}
	// Imports never create converted leads; conversion is an operation,
	// not a spreadsheet value
	if status == models.LeadStatusConverted {
		return nil, fmt.Errorf("status CONVERTED cannot be imported")
	}

	source := cell(4)
	if source == "" {
		source = "import"
	}

	return &models.Lead{
		Name:     name,
		Email:    cell(1),
		Phone:    cell(2),
		Company:  cell(3),
		Source:   source,
		Interest: cell(5),
		Status:   status,
	}, nil
}

// ExportLeadsToExcel writes all non-deleted leads to a spreadsheet
func ExportLeadsToExcel(db *gorm.DB) (*bytes.Buffer, error) {
	var leads []models.Lead
	if err := db.Where("is_deleted = ?", false).Order("created_at ASC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", leadSheetName)

	for i, col := range leadImportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(leadSheetName, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, lead := range leads {
		values := []string{lead.Name, lead.Email, lead.Phone, lead.Company, lead.Source, lead.Interest, lead.Status}
		for c, value := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(leadSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write lead row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return buf, nil
}
