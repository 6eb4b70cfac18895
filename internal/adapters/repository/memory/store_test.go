package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/repository/memory"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, codes ...string) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	for _, code := range codes {
		_, err := store.Employees().Create(context.Background(), &employee.Employee{
			Code: code,
			Name: "Employee " + code,
			Role: employee.RoleGeneral,
		})
		require.NoError(t, err)
	}
	return store
}

func day(d int) *time.Time {
	t := time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestStore_LifecycleScenario(t *testing.T) {
	t.Parallel()

	store := seededStore(t, "E1")
	svc := report.NewService(store.Reports(), nil, nil, nil)
	ctx := context.Background()
	actor := report.Actor{Code: "E1"}

	first, err := svc.CreateReport(ctx, report.CreateReportInput{
		Actor: actor,
		Draft: report.Draft{ReportDate: day(1), Title: "Standup", Content: "Did X"},
	})
	require.NoError(t, err)
	require.NotNil(t, first.Employee)
	assert.Equal(t, "Employee E1", first.Employee.Name)

	_, err = svc.CreateReport(ctx, report.CreateReportInput{
		Actor: actor,
		Draft: report.Draft{ReportDate: day(1), Title: "Other", Content: "Did Y"},
	})
	assert.Equal(t, report.KindDateCheck, report.KindOf(err))

	require.NoError(t, svc.DeleteReport(ctx, report.DeleteReportInput{ID: first.ID}))

	second, err := svc.CreateReport(ctx, report.CreateReportInput{
		Actor: actor,
		Draft: report.Draft{ReportDate: day(1), Title: "Other", Content: "Did Y"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	listed, err := svc.ListActiveReports(ctx, report.ListReportsInput{})
	require.NoError(t, err)
	require.Len(t, listed.Reports, 1)
	assert.Equal(t, second.ID, listed.Reports[0].ID)

	deleted, err := svc.GetReport(ctx, report.GetReportInput{ID: first.ID})
	require.NoError(t, err)
	assert.True(t, deleted.DeleteFlg)

	_, err = svc.FindActiveReport(ctx, report.GetReportInput{ID: first.ID})
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestStore_UniqueBackstop(t *testing.T) {
	t.Parallel()

	store := seededStore(t, "E1")
	repo := store.Reports()
	ctx := context.Background()

	r1, err := repo.Create(ctx, &report.Report{EmployeeCode: "E1", ReportDate: *day(1), Title: "a", Content: "a"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &report.Report{EmployeeCode: "E1", ReportDate: *day(1), Title: "b", Content: "b"})
	assert.ErrorIs(t, err, report.ErrDateCheck)

	r2, err := repo.Create(ctx, &report.Report{EmployeeCode: "E1", ReportDate: *day(2), Title: "b", Content: "b"})
	require.NoError(t, err)

	r2.ReportDate = *day(1)
	_, err = repo.Update(ctx, r2)
	assert.ErrorIs(t, err, report.ErrDateCheck)

	r1.DeleteFlg = true
	_, err = repo.Update(ctx, r1)
	require.NoError(t, err)

	_, err = repo.Update(ctx, r2)
	require.NoError(t, err)

	found, err := repo.FindActiveByEmployeeAndDate(ctx, "E1", *day(1))
	require.NoError(t, err)
	assert.Equal(t, r2.ID, found.ID)

	_, err = repo.FindActiveByEmployeeAndDate(ctx, "E1", *day(2))
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestStore_UnknownEmployee(t *testing.T) {
	t.Parallel()

	store := seededStore(t)
	_, err := store.Reports().Create(context.Background(), &report.Report{EmployeeCode: "ghost", ReportDate: *day(1), Title: "a", Content: "a"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestStore_ListActivePaging(t *testing.T) {
	t.Parallel()

	store := seededStore(t, "E1", "E2")
	repo := store.Reports()
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		_, err := repo.Create(ctx, &report.Report{EmployeeCode: "E1", ReportDate: *day(d), Title: "t", Content: "c"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &report.Report{EmployeeCode: "E2", ReportDate: *day(1), Title: "t", Content: "c"})
	require.NoError(t, err)

	page, next, err := repo.ListActive(ctx, report.ListReportsFilter{EmployeeCode: "E1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, "2", next)

	rest, next, err := repo.ListActive(ctx, report.ListReportsFilter{EmployeeCode: "E1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Empty(t, next)

	all, _, err := repo.ListActive(ctx, report.ListReportsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestEmployeeRepository_CreateAndResolve(t *testing.T) {
	t.Parallel()

	store := seededStore(t, "E1")
	svc := employee.NewService(store.Employees(), nil)

	_, err := svc.RegisterEmployee(context.Background(), employee.RegisterEmployeeInput{Code: "E1", Name: "Dup"})
	assert.ErrorIs(t, err, employee.ErrCodeAlreadyExists)

	found, err := svc.Resolve(context.Background(), " E1 ")
	require.NoError(t, err)
	assert.Equal(t, employee.RoleGeneral, found.Role)

	listed, err := svc.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
