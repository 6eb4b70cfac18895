package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, a *App) {
	t.Helper()

	ctx := context.Background()
	_, err := a.Employees.RegisterEmployee(ctx, employee.RegisterEmployeeInput{Code: "E1", Name: "山田"})
	require.NoError(t, err)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err = a.Reports.CreateReport(ctx, report.CreateReportInput{
		Actor: report.Actor{Code: "E1"},
		Draft: report.Draft{ReportDate: &date, Title: "t", Content: "c"},
	})
	require.NoError(t, err)

	_, err = a.Reports.CreateReport(ctx, report.CreateReportInput{
		Actor: report.Actor{Code: "E1"},
		Draft: report.Draft{ReportDate: &date, Title: "t", Content: "c"},
	})
	assert.Equal(t, report.KindDateCheck, report.KindOf(err))
}

func TestNew_Memory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Lock:    config.LockConfig{Backend: config.LockBackendLocal, Shards: 4},
	}
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	exercise(t, a)
}

func TestNew_SQLite(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "reports.db")},
		Lock:    config.LockConfig{Backend: config.LockBackendLocal, Shards: 4},
	}
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	exercise(t, a)
	require.NoError(t, a.Close())
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "mysql"}}, nil)
	assert.Error(t, err)
}
