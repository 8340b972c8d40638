package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"briefing/internal"
)

// Per-category column layouts for the day export. Each column maps a header
// to the item field it reads.
var exportColumns = map[internal.Category][]exportColumn{
	internal.CategoryActionItems: {
		{"task", "task"}, {"priority", "priority"}, {"course", "course"}, {"dueDate", "dueDate"}, {"source", "source"},
	},
	internal.CategoryAssignments: {
		{"title", "title"}, {"course", "course"}, {"dueDate", "dueDate"}, {"status", "status"}, {"url", "url"}, {"source", "source"},
	},
	internal.CategoryAnnouncements: {
		{"title", "title"}, {"course", "course"}, {"date", "date"}, {"content", "content"}, {"source", "source"},
	},
	internal.CategoryEdPosts: {
		{"title", "title"}, {"course", "course"}, {"isStaff", "isStaff"}, {"isPinned", "isPinned"}, {"url", "url"}, {"source", "source"},
	},
	internal.CategoryGradescope: {
		{"assignment", "assignment"}, {"course", "course"}, {"status", "status"}, {"score", "score"}, {"source", "source"},
	},
}

type exportColumn struct {
	header string
	field  string
}

// ExportBriefingToXLSX writes one briefing document as a workbook with a
// sheet per category.
func ExportBriefingToXLSX(doc *internal.BriefingDocument, outputPath string) error {
	f := excelize.NewFile()
	first := true

	for _, category := range internal.Categories {
		sheet := string(category)
		if first {
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		columns := exportColumns[category]
		for i, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, col.header)
		}

		for rowIdx, item := range doc.Items(category) {
			for colIdx, col := range columns {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				_ = f.SetCellValue(sheet, cell, cellValue(item[col.field]))
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func cellValue(v any) any {
	switch typed := v.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}
