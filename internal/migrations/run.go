// Package migrations применяет SQL-миграции из каталога migrations через golang-migrate.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty схема осталась в состоянии прерванной миграции, нужен ручной migrate force.
var ErrDirty = errors.New("database schema is dirty")

// Run применяет все новые миграции из path и возвращает версию схемы.
// Повторный запуск ничего не меняет.
func Run(db *sql.DB, path string) (uint, error) {
	const op = "migrations.Run"

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), "pgx_v5", driver)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("%s: %w", op, err)
	case dirty:
		return version, fmt.Errorf("%s: version %d: %w", op, version, ErrDirty)
	}
	return version, nil
}
