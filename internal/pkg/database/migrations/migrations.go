package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// MonthIndexName is the partial unique index that allows one open payroll per month.
const MonthIndexName = "payroll_month_open_uniq"

var ErrMonthConstraintMissing = errors.New("payroll month uniqueness index is missing")

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("open migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up applies every pending migration.
func Up(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func Down(db *sql.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

// Version reports the applied schema version.
func Version(db *sql.DB) (uint, bool, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

const monthIndexQuery = `
	SELECT indexdef
	FROM pg_indexes
	WHERE schemaname = current_schema()
	  AND tablename = 'payroll'
	  AND indexname = $1`

// VerifySchema checks that the payroll month index exists and is unique.
// Concurrent commits for the same month are only serialized by this index.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	var def string
	err := db.QueryRowContext(ctx, monthIndexQuery, MonthIndexName).Scan(&def)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMonthConstraintMissing
	}
	if err != nil {
		return fmt.Errorf("inspect payroll indexes: %w", err)
	}

	if !strings.Contains(strings.ToUpper(def), "UNIQUE") {
		return fmt.Errorf("%w: %s is not unique", ErrMonthConstraintMissing, MonthIndexName)
	}
	return nil
}
