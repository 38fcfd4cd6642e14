package httpapi

import (
	"bytes"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"

	"github.com/xuri/excelize/v2"
)

const leadSheet = "Leads"

// LeadExportHeader column order of the export.
var LeadExportHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Source",
	"Interest",
	"Status",
	"Notes",
	"Created At",
}

var leadColumnWidths = []float64{24, 30, 18, 16, 24, 12, 40, 22}

func leadRow(l *domain.Lead) []any {
	return []any{
		l.Name,
		l.Email,
		l.Phone,
		string(l.Source),
		l.Interest,
		string(l.Status),
		l.Notes,
		l.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// GenerateLeadExport renders leads as a single-sheet workbook with a frozen header row.
func GenerateLeadExport(leads []*domain.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(leadSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(leadSheet, "A1", &LeadExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(LeadExportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(leadSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range leadColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(leadSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, l := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := leadRow(l)
		if err := f.SetSheetRow(leadSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(leadSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
