package user

import (
	"bytes"
	"context"
	"fmt"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	"github.com/xuri/excelize/v2"
)

const (
	rosterSheet      = "Users"
	rosterTimeLayout = "2006-01-02 15:04:05"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var RosterHeader = []string{
	"User ID",
	"Name",
	"National ID Number",
	"Department ID",
	"Department",
	"Role",
	"Token ID",
	"Device Code",
	"Valid Until",
	"Created At",
}

var rosterColumnWidths = []float64{14, 28, 20, 15, 28, 12, 14, 22, 20, 20}

// Export renders every user, with its department and token, as an XLSX workbook.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	users, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := GenerateRoster(users)
	if err != nil {
		s.logger.Error("failed to generate user roster", "error", err)
		return nil, internal.NewInternalError("failed to generate user roster", err)
	}
	return data, nil
}

// GenerateRoster writes one header row followed by one row per user.
func GenerateRoster(users []*User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// A new workbook carries a single default sheet; reuse it.
	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &RosterHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(RosterHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(rosterSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range rosterColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(rosterSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, u := range users {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := rosterRow(u)
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(rosterSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func rosterRow(u *User) []interface{} {
	row := []interface{}{
		u.UserID,
		u.Name,
		u.NationalIDNumber,
		deref(u.DepartmentID),
		"",
		deref(u.Role),
		deref(u.TokenID),
		"",
		"",
		u.CreatedAt.Format(rosterTimeLayout),
	}
	if u.Department != nil {
		row[4] = u.Department.Name
	}
	if u.HasToken() {
		row[7] = u.Token.DeviceCode
		row[8] = u.Token.ValidUntil.Format(rosterTimeLayout)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
