package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // driver postgres://
	_ "github.com/golang-migrate/migrate/v4/source/file"       // fuente file://
)

// RunMigrations aplica las migraciones pendientes de migrationsDir (ej. "file://./migrations").
// Si no hay nada nuevo que aplicar devuelve nil.
func RunMigrations(dsn, migrationsDir string) error {
	m, err := migrate.New(migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("crear migrador: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// MigrationVersion devuelve la versión aplicada y si quedó marcada como sucia.
func MigrationVersion(dsn, migrationsDir string) (uint, bool, error) {
	m, err := migrate.New(migrationsDir, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("crear migrador: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("leer versión: %w", err)
	}
	return version, dirty, nil
}
