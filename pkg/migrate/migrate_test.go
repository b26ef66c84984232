package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/demolux/storefront/pkg/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateFSRejectsBadNames(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	err := ValidateFS(fsys, "migrations")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateFSRequiresDownSection(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/20250101000000_things.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	err := ValidateFS(fsys, "migrations")
	require.Error(t, err)
	require.Contains(t, err.Error(), "+goose Down")
}

func TestRunUpCreatesCartSessionsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Run(context.Background(), sqlDB, config.DBDriverSQLite, "up"))
	require.True(t, conn.Migrator().HasTable("cart_sessions"))
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Owner!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_cart_owner.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "-- +goose Down")
	require.NoError(t, ValidateFS(os.DirFS(filepath.Dir(path)), "."))
}

func TestDialectFor(t *testing.T) {
	require.Equal(t, "sqlite3", dialectFor("SQLite"))
	require.Equal(t, "postgres", dialectFor("postgres"))
}
