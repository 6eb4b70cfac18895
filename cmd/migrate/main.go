package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/GogoIMU/DailyReportSystemApplication/assets"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.PathFromEnv()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "report-migrate")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	dir, url, err := target(cfg)
	if err != nil {
		zlog.Fatal("unsupported migration target", zap.Error(err))
	}

	if err := runMigration(zlog, action, dir, url); err != nil {
		zlog.Fatal("migration failed", zap.String("action", action), zap.Error(err))
	}

	zlog.Info("migration completed", zap.String("action", action), zap.String("driver", cfg.Storage.Driver))
}

func target(cfg *config.Config) (string, string, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return assets.PostgresMigrationsDir, cfg.Database.DSN(), nil
	case config.DriverSQLite:
		return assets.SQLiteMigrationsDir, "sqlite3://" + cfg.Storage.SQLitePath + "?_foreign_keys=on", nil
	default:
		return "", "", fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}
}

func runMigration(zlog *zap.Logger, action, dir, url string) error {
	src, err := iofs.New(assets.Migrations, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations %s: %w", dir, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				zlog.Info("no migration applied")
				return nil
			}
			return err
		}
		zlog.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
