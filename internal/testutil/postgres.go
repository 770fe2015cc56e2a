// Package testutil provides shared testing utilities: a pgvector-enabled
// PostgreSQL container, deterministic mock models and embedders, and small
// helpers used across packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lmeyers/treatybot/db"
)

// TestDBContainer wraps a PostgreSQL test container with a connection pool.
// The schema is fully migrated when SetupTestDB returns.
type TestDBContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a pgvector-enabled PostgreSQL container, runs the
// embedded migrations against it, and returns a ready pool plus a cleanup
// function that must be called to terminate the container.
//
//	db, cleanup := testutil.SetupTestDB(t)
//	defer cleanup()
func SetupTestDB(t *testing.T) (*TestDBContainer, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("treatybot_test"),
		postgres.WithUsername("treatybot_test"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to get connection string: %v", err)
	}

	if err := db.Migrate(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to ping database: %v", err)
	}

	container := &TestDBContainer{
		Container: pgContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(context.Background())
	}

	return container, cleanup
}
