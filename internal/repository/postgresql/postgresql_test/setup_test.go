package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database/migrations"
	"github.com/stretchr/testify/require"
)

var (
	setupOnce sync.Once
	testDB    *database.DB
	setupErr  error
)

// tables in truncation order; CASCADE covers the foreign keys.
var tables = []string{
	"general_settings",
	"payroll_details",
	"payroll",
	"employee_salary_history",
	"employees",
	"salary_heads",
	"designations",
	"departments",
}

// openTestDB connects to TEST_DATABASE_URL and migrates it once per run.
// Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	setupOnce.Do(func() {
		ctx := context.Background()
		testDB, setupErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolSize{MaxConns: 5, MinConns: 1})
		if setupErr != nil {
			setupErr = fmt.Errorf("failed to connect to test database: %w", setupErr)
			return
		}
		if setupErr = migrations.Up(testDB.SQLDB()); setupErr != nil {
			return
		}
		setupErr = migrations.VerifySchema(ctx, testDB.SQLDB())
	})
	require.NoError(t, setupErr)

	truncateAllTables(t)
	t.Cleanup(func() { truncateAllTables(t) })
	return testDB
}

func truncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	require.NoError(t, tx.Commit(ctx))
}
