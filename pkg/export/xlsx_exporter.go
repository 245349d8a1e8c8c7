package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets into a spreadsheet, one sheet per group when a
// group column is set.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType reports the MIME type of rendered files.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension reports the file extension of rendered files.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the dataset into an in-memory workbook.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx: %w", errNoHeaders)
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}

	groups := splitGroups(data)
	for i, group := range groups {
		sheet := sheetName(group.name, title, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		for col, header := range data.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(data.Headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
		for r, row := range group.rows {
			for col, header := range data.Headers {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet, cell, row[header]); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type rowGroup struct {
	name string
	rows []map[string]string
}

func splitGroups(data Dataset) []rowGroup {
	if data.GroupColumn == "" {
		return []rowGroup{{rows: data.Rows}}
	}
	groups := make([]rowGroup, 0)
	for _, row := range data.Rows {
		name := row[data.GroupColumn]
		if len(groups) == 0 || groups[len(groups)-1].name != name {
			groups = append(groups, rowGroup{name: name})
		}
		groups[len(groups)-1].rows = append(groups[len(groups)-1].rows, row)
	}
	if len(groups) == 0 {
		groups = append(groups, rowGroup{})
	}
	return groups
}

// sheetName keeps names within Excel's 31 character limit and unique by index.
func sheetName(group, title string, idx int) string {
	name := group
	if name == "" {
		name = title
	}
	if name == "" {
		name = "Report"
	}
	suffix := fmt.Sprintf(" %d", idx+1)
	if len(name)+len(suffix) > 31 {
		name = name[:31-len(suffix)]
	}
	return name + suffix
}
