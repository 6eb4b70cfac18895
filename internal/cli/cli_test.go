package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/app"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestOpener(t *testing.T) Opener {
	t.Helper()

	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Lock:    config.LockConfig{Backend: config.LockBackendLocal, Shards: 4},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return func(context.Context, string) (*app.App, error) {
		return a, nil
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportLifecycle(t *testing.T) {
	t.Parallel()

	open := newTestOpener(t)

	out, err := run(t, open, "employee", "add", "E1", "山田", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered employee E1")
	assert.Contains(t, out, "管理者")

	out, err = run(t, open, "--employee", "E1", "report", "create", "--date", "2024-05-01", "--title", "Standup", "--content", "Did X")
	require.NoError(t, err)
	assert.Contains(t, out, "Created report 1")
	assert.Contains(t, out, "Date:     2024-05-01")

	out, err = run(t, open, "--employee", "E1", "report", "create", "--date", "2024-05-01", "--title", "Again", "--content", "Did Y")
	require.Error(t, err)
	assert.Equal(t, report.KindDateCheck, report.KindOf(err))
	assert.Contains(t, out, string(report.KindDateCheck))

	out, err = run(t, open, "--employee", "E1", "report", "update", "1", "--date", "2024-05-02", "--title", "Standup", "--content", "Did Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Content:  Did Z")

	out, err = run(t, open, "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-05-02")

	_, err = run(t, open, "--employee", "E1", "report", "delete", "1")
	require.NoError(t, err)

	_, err = run(t, open, "report", "get", "1")
	assert.Equal(t, report.KindNotFound, report.KindOf(err))

	out, err = run(t, open, "report", "get", "1", "--include-deleted")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = run(t, open, "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports found.")
}

func TestReportCreate_Validation(t *testing.T) {
	t.Parallel()

	open := newTestOpener(t)

	_, err := run(t, open, "employee", "add", "E1", "山田")
	require.NoError(t, err)

	_, err = run(t, open, "--employee", "E1", "report", "create", "--date", "2024-05-01", "--title", "", "--content", "c")
	assert.Equal(t, report.KindBlank, report.KindOf(err))

	_, err = run(t, open, "--employee", "E1", "report", "create", "--date", "05/01/2024", "--title", "t", "--content", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")

	_, err = run(t, open, "report", "create", "--date", "2024-05-01", "--title", "t", "--content", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--employee is required")

	_, err = run(t, open, "--employee", "E404", "report", "create", "--date", "2024-05-01", "--title", "t", "--content", "c")
	require.Error(t, err)
	assert.Equal(t, report.KindUnknown, report.KindOf(err))
}

func TestReportList_Paging(t *testing.T) {
	t.Parallel()

	open := newTestOpener(t)

	_, err := run(t, open, "employee", "add", "E1", "山田")
	require.NoError(t, err)
	for _, date := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		_, err := run(t, open, "--employee", "E1", "report", "create", "--date", date, "--title", "t", "--content", "c")
		require.NoError(t, err)
	}

	out, err := run(t, open, "report", "list", "--owner", "E1", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Next page: --page-token 2")
	assert.NotContains(t, out, "2024-05-03")

	out, err = run(t, open, "report", "list", "--owner", "E1", "--page-size", "2", "--page-token", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-05-03")
	assert.NotContains(t, out, "Next page")
}

func TestReportExport(t *testing.T) {
	t.Parallel()

	open := newTestOpener(t)

	_, err := run(t, open, "employee", "add", "E1", "山田")
	require.NoError(t, err)
	_, err = run(t, open, "--employee", "E1", "report", "create", "--date", "2024-05-01", "--title", "Standup", "--content", "Did X")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports.xlsx")
	out, err := run(t, open, "report", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 reports")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("日報")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Standup", rows[1][4])
}

func TestEmployeeList(t *testing.T) {
	t.Parallel()

	open := newTestOpener(t)

	out, err := run(t, open, "employee", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No employees found.")

	_, err = run(t, open, "employee", "add", "E1", "山田")
	require.NoError(t, err)
	_, err = run(t, open, "employee", "add", "E1", "佐藤")
	require.Error(t, err)

	out, err = run(t, open, "employee", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "山田")
	assert.Contains(t, out, "一般")
}
