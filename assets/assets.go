// Package assets はバイナリに埋め込むスキーマ定義を保持します。
package assets

import "embed"

// Migrations は golang-migrate 形式のマイグレーションです。
// migrations/postgres と migrations/sqlite にドライバ別の定義を置きます。
//
//go:embed migrations
var Migrations embed.FS

const (
	PostgresMigrationsDir = "migrations/postgres"
	SQLiteMigrationsDir   = "migrations/sqlite"
)
