// Package export は日報一覧をスプレッドシートとして書き出します。
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/xuri/excelize/v2"
)

// SheetName は出力するシート名です。
const SheetName = "日報"

// Header は出力する列見出しです。
var Header = []string{"ID", "日付", "社員番号", "氏名", "タイトル", "内容", "登録日時", "更新日時"}

var columnWidths = []float64{8, 12, 12, 16, 30, 60, 20, 20}

const timestampLayout = "2006-01-02 15:04:05"

// WriteReports は日報一覧を xlsx 形式で w に書き出します。
func WriteReports(w io.Writer, reports []*report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return fmt.Errorf("export: header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("export: column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}
	}

	for i, rep := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
		row := rowOf(rep)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export: write report %d: %w", rep.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func rowOf(rep *report.Report) []any {
	name := ""
	if rep.Employee != nil {
		name = rep.Employee.Name
	}
	return []any{
		rep.ID,
		rep.ReportDate.Format(report.DateLayout),
		rep.EmployeeCode,
		name,
		rep.Title,
		rep.Content,
		formatTimestamp(rep.CreatedAt),
		formatTimestamp(rep.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
