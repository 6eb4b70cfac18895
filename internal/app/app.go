// Package app は設定に従ってストア、ロック、ユースケースを組み立てます。
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/repository/memory"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/repository/postgres"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/repository/sqlite"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	pgdb "github.com/GogoIMU/DailyReportSystemApplication/internal/platform/db/postgres"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/lock"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App は組み立て済みのユースケースと、その後始末をまとめます。
type App struct {
	Reports   *report.Service
	Employees *employee.Service
	Logger    *zap.Logger

	closers []func() error
}

// New は cfg に従って App を構築します。
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Logger: logger}

	locker, err := a.buildLocker(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var (
		reportRepo   report.Repository
		employeeRepo employee.Repository
		tx           report.TransactionManager
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pgdb.NewPool(ctx, cfg.Database, logger.Named("postgres"))
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		reportRepo = postgres.NewReportRepository(pool)
		employeeRepo = postgres.NewEmployeeRepository(pool)
		tx = pgdb.NewTransactionManager(pool)
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		reportRepo = store.Reports()
		employeeRepo = store.Employees()
		tx = store.TransactionManager()
	case config.DriverMemory:
		store := memory.NewStore()
		reportRepo = store.Reports()
		employeeRepo = store.Employees()
	default:
		_ = a.Close()
		return nil, fmt.Errorf("app: unsupported storage driver %q", cfg.Storage.Driver)
	}

	a.Reports = report.NewService(reportRepo, nil, tx, locker)
	a.Employees = employee.NewService(employeeRepo, nil)

	logger.Info("application initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("lock", cfg.Lock.Backend),
	)
	return a, nil
}

func (a *App) buildLocker(ctx context.Context, cfg *config.Config) (report.Locker, error) {
	switch cfg.Lock.Backend {
	case config.LockBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("app: ping redis %s: %w", cfg.Redis.Addr, err)
		}
		return lock.NewRedis(client, cfg.Lock.TTL, a.Logger.Named("lock")), nil
	default:
		return lock.NewSharded(cfg.Lock.Shards), nil
	}
}

// Close は確保したリソースを逆順に解放します。
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
