package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Users, notes and the audit log, one numbered up/down pair each.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run brings the notehub schema up to the newest embedded migration and
// checks that the database ends there and is not left dirty.
func Run(databaseURL string) error {
	latest, err := latestVersion(migrationsFS)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	if dirty || version != latest {
		return fmt.Errorf("schema at version %d (dirty=%t), want %d", version, dirty, latest)
	}
	slog.Info("database schema ready", "version", version)
	return nil
}

// latestVersion returns the highest migration version in fsys.
func latestVersion(fsys fs.FS) (uint, error) {
	src, err := iofs.New(fsys, "migrations")
	if err != nil {
		return 0, fmt.Errorf("migrate source: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("first migration: %w", err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("next migration after %d: %w", v, err)
		}
		v = next
	}
}
