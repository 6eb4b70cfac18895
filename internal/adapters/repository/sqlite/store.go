// Package sqlite は SQLite を利用した日報・社員ストアを提供します。
// 単一ファイルで動作するため、開発環境や小規模な拠点での運用を想定しています。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GogoIMU/DailyReportSystemApplication/assets"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

// Store は SQLite 接続とリポジトリをまとめます。
type Store struct {
	db *sql.DB
}

// Open は path のデータベースを開き、組み込みのマイグレーションを適用します。
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// 書き込みは 1 接続に直列化する。
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStore は既存の接続から Store を生成します。マイグレーションは行いません。
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate は埋め込まれた SQLite 用マイグレーションを最新まで適用します。
// 接続のクローズは呼び出し側の責務です。
func Migrate(db *sql.DB) error {
	src, err := iofs.New(assets.Migrations, assets.SQLiteMigrationsDir)
	if err != nil {
		return fmt.Errorf("sqlite: open migrations: %w", err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite: migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("sqlite: create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}
	return nil
}

// DB は内部の接続を返します。
func (s *Store) DB() *sql.DB {
	return s.db
}

// Reports は report.Repository を返します。
func (s *Store) Reports() *ReportRepository {
	return NewReportRepository(s.db)
}

// Employees は employee.Repository を返します。
func (s *Store) Employees() *EmployeeRepository {
	return NewEmployeeRepository(s.db)
}

// TransactionManager はこの接続に対するトランザクション制御を返します。
func (s *Store) TransactionManager() *TransactionManager {
	return NewTransactionManager(s.db)
}

// Close は接続を閉じます。
func (s *Store) Close() error {
	return s.db.Close()
}
