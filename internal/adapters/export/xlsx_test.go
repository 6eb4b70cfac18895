package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReports(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	reports := []*report.Report{
		{
			ID:           1,
			ReportDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Title:        "朝会",
			Content:      "進捗共有",
			EmployeeCode: "E1",
			CreatedAt:    created,
			UpdatedAt:    created,
			Employee:     &report.EmployeeSnapshot{Code: "E1", Name: "山田"},
		},
		{
			ID:           2,
			ReportDate:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Title:        "設計",
			Content:      "レビュー",
			EmployeeCode: "E2",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, reports))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"1", "2024-05-01", "E1", "山田", "朝会", "進捗共有", "2024-05-01 09:30:00", "2024-05-01 09:30:00"}, rows[1])
	assert.Equal(t, "E2", rows[2][2])
	assert.Equal(t, "", rows[2][3])

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}

func TestWriteReports_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
