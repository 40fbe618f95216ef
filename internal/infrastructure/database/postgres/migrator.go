package postgres

import (
	"embed"
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file:// source
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/ProjectPulse/pkg/errors"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// ─────────────────────────────────────────────────────────────────────────────
// Migrator construction
// ─────────────────────────────────────────────────────────────────────────────

// newMigrate opens a migrate instance for dsn.  An empty path selects the
// migrations compiled into the binary; anything else is a migrate source URL
// such as "file://./migrations".
func newMigrate(dsn, path string) (*migrate.Migrate, error) {
	var (
		m   *migrate.Migrate
		err error
	)
	if path == "" {
		src, srcErr := iofs.New(embeddedMigrations, "migrations")
		if srcErr != nil {
			return nil, errors.Wrap(srcErr, errors.ErrCodeDatabaseError, "failed to open embedded migrations")
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	} else {
		m, err = migrate.New(path, migrateURL(dsn))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RunMigrations: apply all pending migrations
// ─────────────────────────────────────────────────────────────────────────────

// RunMigrations applies every pending migration.  An up-to-date schema is not
// an error.
func RunMigrations(dsn, path string) error {
	m, err := newMigrate(dsn, path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RollbackMigration: roll back by steps
// ─────────────────────────────────────────────────────────────────────────────

func RollbackMigration(dsn, path string, steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeValidation, "steps must be greater than 0, got %d", steps)
	}

	m, err := newMigrate(dsn, path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeDatabaseError, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MigrationStatus: current version
// ─────────────────────────────────────────────────────────────────────────────

// MigrationStatus reports the applied version and whether a failed migration
// left the schema dirty.  A fresh database reports version 0.
func MigrationStatus(dsn, path string) (version uint, dirty bool, err error) {
	m, err := newMigrate(dsn, path)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

// ForceMigrationVersion sets the recorded version without running anything.
// It exists to recover from a dirty state after a failed migration.
func ForceMigrationVersion(dsn, path string, version int) error {
	m, err := newMigrate(dsn, path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to force migration version")
	}
	return nil
}

//Personal.AI order the ending
