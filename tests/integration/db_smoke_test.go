package integration

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPostgres opens a plain database/sql connection for schema-level
// assertions. Skips when TEST_DB_DSN is not set.
func setupTestPostgres(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSchemaTablesExist(t *testing.T) {
	db := setupTestPostgres(t)

	tables := []string{
		"users", "projects", "features", "validation_methods",
		"competitors", "competitive_features", "milestones", "kpis",
		"flow_diagrams", "mvp_plans",
	}
	for _, table := range tables {
		var exists bool
		err := db.QueryRow(
			`select exists (select 1 from information_schema.tables
			 where table_schema = 'public' and table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestFlowDiagramUniquePerProject(t *testing.T) {
	db := setupTestPostgres(t)

	// The upsert behavior depends on a unique constraint on project_id.
	var count int
	err := db.QueryRow(
		`select count(*) from information_schema.table_constraints
		 where table_name = 'flow_diagrams'
		   and constraint_type = 'UNIQUE'`).Scan(&count)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1, "flow_diagrams needs a unique constraint on project_id")
}
