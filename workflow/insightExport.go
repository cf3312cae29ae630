package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/contentlens/insight_backend/models"
	"github.com/xuri/excelize/v2"
)

// ExportInsightsExcel streams the caller's insights as an .xlsx workbook.
func ExportInsightsExcel(ctx context.Context, userId int, w io.Writer) error {
	insights, err := models.GetBusinessInsights(ctx, userId)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Sheet1"); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "Category")
	f.SetCellValue("Sheet1", "B1", "Title")
	f.SetCellValue("Sheet1", "C1", "Content")
	f.SetCellValue("Sheet1", "D1", "Priority")
	f.SetCellValue("Sheet1", "E1", "Confidence")
	f.SetCellValue("Sheet1", "F1", "ContentItem")
	f.SetCellValue("Sheet1", "G1", "CreatedAt")

	// Add data
	for i, insight := range insights {
		row := fmt.Sprint(i + 2)
		f.SetCellValue("Sheet1", "A"+row, string(insight.Category))
		f.SetCellValue("Sheet1", "B"+row, insight.Title)
		f.SetCellValue("Sheet1", "C"+row, insight.Content)
		f.SetCellValue("Sheet1", "D"+row, string(insight.Priority))
		f.SetCellValue("Sheet1", "E"+row, insight.Confidence.InexactFloat64())
		if insight.ContentItem != nil {
			f.SetCellValue("Sheet1", "F"+row, insight.ContentItem.Title)
		}
		f.SetCellValue("Sheet1", "G"+row, insight.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return f.Write(w)
}
