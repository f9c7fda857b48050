package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.Migrate(context.Background()))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables empties every payroll table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"timesheet_entry_revisions",
		"timesheet_entries",
		"bonus_withdrawals",
		"bonus_accruals",
		"loans",
		"payroll_deductions",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// InsertEmployee seeds an active per-shift employee on a 09:00-17:00 shift.
func (t *TestDatabaseSetup) InsertEmployee(ctx context.Context, companyID, code string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO employees (company_id, employee_code, full_name, role, pay_basis, shift_start, shift_end, per_shift_amount)
		VALUES ($1, $2, $3, 'Cashier', 'per_shift', '09:00', '17:00', 800)
		RETURNING id
	`, companyID, code, "Employee "+code).Scan(&id)
	return id, err
}

// Close closes the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
