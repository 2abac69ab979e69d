// Package export renders the caller's visible leads as a downloadable CSV
// or Excel file.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

// Supported export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

var columns = []string{
	"Name", "Email", "Mobile", "Contact Person", "Lead Source",
	"Status", "Priority", "Expected Value", "Assigned To", "City", "Created At",
}

// Result is a rendered export ready to stream to the client.
type Result struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Service renders lead exports.
type Service struct {
	db *gorm.DB
}

// NewService creates a new export service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ExportLeads renders the caller's visible leads in the requested format.
func (s *Service) ExportLeads(ctx context.Context, caller scope.Caller, format string) (*Result, error) {
	if format != FormatCSV && format != FormatExcel {
		return nil, domain.NewValidationError("format must be csv or excel")
	}

	var leads []models.Party
	q := scope.Apply(s.db.WithContext(ctx).Where("kind = ?", models.KindLead), caller)
	if err := q.Order("created_at asc").Find(&leads).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case FormatCSV:
		content, err := renderCSV(leads)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		return &Result{
			Filename:    fmt.Sprintf("leads_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		content, err := renderExcel(leads)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		return &Result{
			Filename:    fmt.Sprintf("leads_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	}
}

func renderCSV(leads []models.Party) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, lead := range leads {
		row := []string{
			lead.Name,
			lead.Email,
			lead.Mobile,
			lead.ContactPerson,
			lead.LeadSource,
			lead.Status,
			lead.Priority,
			strconv.FormatFloat(lead.ExpectedValue, 'f', 2, 64),
			lead.AssignedTo,
			lead.City,
			lead.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(leads []models.Party) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leads"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, lead := range leads {
		row := []interface{}{
			lead.Name,
			lead.Email,
			lead.Mobile,
			lead.ContactPerson,
			lead.LeadSource,
			lead.Status,
			lead.Priority,
			lead.ExpectedValue,
			lead.AssignedTo,
			lead.City,
			lead.CreatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
