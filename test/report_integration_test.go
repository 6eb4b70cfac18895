//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/assets"
	repo "github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/repository/postgres"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	pg "github.com/GogoIMU/DailyReportSystemApplication/internal/platform/db/postgres"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestReportLifecycleIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database, nil)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	clock := stubClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	employees := employee.NewService(repo.NewEmployeeRepository(pool), clock)
	reportRepo := repo.NewReportRepository(pool)
	// ロックなしでも一意インデックスで重複を防げることを確認する。
	reports := report.NewService(reportRepo, clock, pg.NewTransactionManager(pool), nil)

	if _, err := employees.RegisterEmployee(ctx, employee.RegisterEmployeeInput{Code: "IT001", Name: "結合テスト"}); err != nil {
		t.Fatalf("RegisterEmployee error: %v", err)
	}

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	actor := report.Actor{Code: "IT001", Role: employee.RoleGeneral}

	created, err := reports.CreateReport(ctx, report.CreateReportInput{
		Actor: actor,
		Draft: report.Draft{ReportDate: &date, Title: "Standup", Content: "Did X"},
	})
	if err != nil {
		t.Fatalf("CreateReport error: %v", err)
	}
	if created.Employee == nil || created.Employee.Name != "結合テスト" {
		t.Fatalf("expected joined employee snapshot, got %+v", created.Employee)
	}

	_, err = reports.CreateReport(ctx, report.CreateReportInput{
		Actor: actor,
		Draft: report.Draft{ReportDate: &date, Title: "Again", Content: "Did Y"},
	})
	if report.KindOf(err) != report.KindDateCheck {
		t.Fatalf("expected %s, got %v", report.KindDateCheck, err)
	}

	if err := reports.DeleteReport(ctx, report.DeleteReportInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteReport error: %v", err)
	}

	found, err := reports.GetReport(ctx, report.GetReportInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetReport error: %v", err)
	}
	if !found.DeleteFlg {
		t.Fatalf("expected report to be soft-deleted")
	}

	if _, err := reports.FindActiveReport(ctx, report.GetReportInput{ID: created.ID}); !errors.Is(err, report.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}

	// 論理削除後は同じ日付で再作成できる。
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reports.CreateReport(ctx, report.CreateReportInput{
				Actor: actor,
				Draft: report.Draft{ReportDate: &date, Title: "Retry", Content: "Concurrent"},
			})

			mu.Lock()
			defer mu.Unlock()
			switch report.KindOf(err) {
			case report.KindSuccess:
				successes++
			case report.KindDateCheck:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != 7 {
		t.Fatalf("expected exactly one success, got %d successes and %d conflicts", successes, conflicts)
	}

	list, err := reports.ListActiveReports(ctx, report.ListReportsInput{EmployeeCode: "IT001"})
	if err != nil {
		t.Fatalf("ListActiveReports error: %v", err)
	}
	if len(list.Reports) != 1 {
		t.Fatalf("expected one active report, got %d", len(list.Reports))
	}
}

func resetMigrations(dsn string) error {
	src, err := iofs.New(assets.Migrations, assets.PostgresMigrationsDir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
