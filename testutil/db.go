// Package testutil provides shared helpers for integration tests.
// Helpers skip automatically when TEST_DATABASE_URL or TEST_REDIS_URL is not
// set, so unit tests run without any backing services.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary-planner/backend/migrations"
)

const (
	envDatabaseURL = "TEST_DATABASE_URL"
	envRedisURL    = "TEST_REDIS_URL"
)

// RunMigrated is a TestMain body: it applies every migration to the test
// database (when one is configured) and then runs the package's tests.
// Pass the result to os.Exit.
func RunMigrated(m *testing.M) int {
	dsn := os.Getenv(envDatabaseURL)
	if dsn == "" {
		// Every integration test skips itself; unit tests still run.
		return m.Run()
	}
	if err := migrate(dsn); err != nil {
		fmt.Fprintf(os.Stderr, "testutil.RunMigrated: %v\n", err)
		return 1
	}
	return m.Run()
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()
	if _, err := migrations.Up(context.Background(), db); err != nil {
		return err
	}
	return nil
}

// NewPool opens a *pgxpool.Pool against TEST_DATABASE_URL, skipping the test
// when it is not set. The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireEnv(t, envDatabaseURL))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewTx begins a transaction that is rolled back when the test finishes, so
// every repo test starts from the migrated schema and leaves nothing behind.
// Nested Begin calls on the returned tx become savepoints.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()

	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// NewSQLDB opens a *sql.DB against TEST_DATABASE_URL using the pgx
// database/sql driver, for callers such as goose that need database/sql.
// The connection is closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireEnv(t, envDatabaseURL))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// NewRedis returns a client for the Redis server named by TEST_REDIS_URL,
// skipping the test if the variable is not set. The selected database is
// flushed before the test and the client is closed when it finishes.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(requireEnv(t, envRedisURL))
	if err != nil {
		t.Fatalf("testutil.NewRedis: parse url: %v", err)
	}
	rdb := redis.NewClient(opts)

	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Fatalf("testutil.NewRedis: flush: %v", err)
	}

	t.Cleanup(func() { rdb.Close() })
	return rdb
}

// requireEnv returns the named variable, skipping the test when it is empty.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
