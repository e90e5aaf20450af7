package migration

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/riskibarqy/tourney-sheet-sync/db/migrations"
)

// Open builds a migrator for dbURL. An empty dir uses the schema embedded
// in the binary, otherwise the .sql files under dir are read.
func Open(dbURL, dir string) (*migrate.Migrate, string, error) {
	dbURL = strings.TrimSpace(dbURL)
	if dbURL == "" {
		return nil, "", fmt.Errorf("database url is required")
	}

	dir = strings.TrimSpace(dir)
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve migrations dir %s: %w", dir, err)
		}
		sourceURL := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return nil, "", fmt.Errorf("create migrator source=%s: %w", sourceURL, err)
		}
		return m, sourceURL, nil
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("create migrator source=embedded: %w", err)
	}
	return m, "embedded", nil
}

// Up applies every pending migration. No pending change is not an error.
func Up(m *migrate.Migrate) (bool, error) {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the source and database handles of m.
func Close(m *migrate.Migrate) error {
	srcErr, dbErr := m.Close()
	return errors.Join(srcErr, dbErr)
}
