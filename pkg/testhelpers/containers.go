package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/database"
)

// TestImage is a PostgreSQL image with the pgvector extension, needed by
// the document chunk table.
const TestImage = "pgvector/pgvector:pg16"

// TestDB holds a shared test database container and connection pool with
// migrations applied.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        TestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "engine_test",
			"POSTGRES_USER":     "engine",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://engine:test_password@%s:%s/engine_test?sslmode=disable",
		host, port.Port())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Readiness can lag the listening port on slow machines.
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	if err := applyMigrations(connStr); err != nil {
		return nil, err
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}, nil
}

func applyMigrations(connStr string) error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, migrationsDir(), zap.NewNop())
}

// migrationsDir resolves the repository's migrations directory relative
// to this source file, so tests work from any package directory.
func migrationsDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
}
